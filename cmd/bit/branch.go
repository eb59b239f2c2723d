package main

import (
	"fmt"
	"os"

	"github.com/rybkr/bit/internal/termcolor"
	"github.com/rybkr/bit/internal/vcs"
)

func runBranch(repo *vcs.Repository, args []string, cw *termcolor.Writer) int {
	var del bool
	var name string

	for _, a := range args {
		switch {
		case a == "-d" || a == "--delete":
			del = true
		case name == "":
			name = a
		default:
			fmt.Fprintf(os.Stderr, "error: unexpected argument: %q\n", a)
			return 1
		}
	}

	if del {
		if name == "" {
			fmt.Fprintln(os.Stderr, "usage: bit branch -d <name>")
			return 1
		}
		if err := repo.DeleteBranch(name); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 1
		}
		fmt.Printf("Deleted branch %s\n", name)
		return 0
	}

	if name != "" {
		if err := repo.CreateBranch(name); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 1
		}
		fmt.Printf("Created branch %s\n", name)
		return 0
	}

	names, current, err := repo.ListBranches()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}
	for _, n := range names {
		if n == current {
			fmt.Printf("* %s\n", cw.Green(n))
		} else {
			fmt.Printf("  %s\n", n)
		}
	}
	return 0
}
