package main

import (
	"fmt"
	"os"

	"github.com/rybkr/bit/internal/progress"
	"github.com/rybkr/bit/internal/vcs"
)

func runAdd(repo *vcs.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: bit add <path>...")
		return 1
	}
	sp := progress.New("staging files")
	sp.Start()
	defer sp.Stop()

	for _, path := range args {
		sp.UpdateMessage("staging " + path)
		if err := repo.Add(path); err != nil {
			sp.Stop()
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 1
		}
	}
	return 0
}
