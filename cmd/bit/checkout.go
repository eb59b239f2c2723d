package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rybkr/bit/internal/progress"
	"github.com/rybkr/bit/internal/vcs"
)

func runCheckout(repo *vcs.Repository, args []string) int {
	create := false
	branch := ""

	for _, a := range args {
		switch {
		case a == "-b":
			create = true
		case branch == "":
			branch = a
		default:
			fmt.Fprintf(os.Stderr, "error: unexpected argument: %q\n", a)
			return 1
		}
	}
	if branch == "" {
		fmt.Fprintln(os.Stderr, "usage: bit checkout [-b] <branch>")
		return 1
	}

	sp := progress.New("materializing " + branch)
	sp.Start()
	err := repo.Checkout(branch, create)
	sp.Stop()
	if err != nil {
		var notFound *vcs.BranchNotFoundError
		if errors.As(err, &notFound) {
			fmt.Printf("branch %q not found\n", branch)
			return 0
		}
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}

	if create {
		fmt.Printf("Switched to a new branch '%s'\n", branch)
	} else {
		fmt.Printf("Switched to branch '%s'\n", branch)
	}
	return 0
}
