package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rybkr/bit/internal/vcs"
)

const defaultAuthor = "bit user <user@bit>"

func runCommit(repo *vcs.Repository, args []string) int {
	message := ""
	author := defaultAuthor

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-m", "--message":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "error: -m requires a value")
				return 1
			}
			i++
			message = args[i]
		case "--author":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "error: --author requires a value")
				return 1
			}
			i++
			author = args[i]
		default:
			fmt.Fprintf(os.Stderr, "error: unknown option: %q\n", args[i])
			return 1
		}
	}

	d, err := repo.Commit(message, author)
	if err != nil {
		if errors.Is(err, vcs.ErrNothingToCommit) {
			fmt.Println("nothing to commit, working tree clean")
			return 0
		}
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}

	branch, err := repo.Refs().CurrentBranch()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}
	fmt.Printf("[%s %s] %s\n", branch, d.Short(), firstLine(message))
	return 0
}
