package main

import (
	"fmt"
	"os"

	"github.com/rybkr/bit/internal/vcs"
)

func runInit(args []string) int {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}
	repo, err := vcs.Init(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}
	fmt.Printf("Initialized empty repository in %s\n", repo.GitDir())
	return 0
}
