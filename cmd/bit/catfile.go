package main

import (
	"fmt"
	"os"

	"github.com/rybkr/bit/internal/vcs"
)

func runCatFile(repo *vcs.Repository, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: bit cat-file (-t|-s|-p) <digest>")
		return 1
	}

	flag := args[0]
	d, err := vcs.NewDigest(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}

	t, content, err := repo.GetObject(d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}

	switch flag {
	case "-t":
		fmt.Println(t)
	case "-s":
		fmt.Println(len(content))
	case "-p":
		return prettyPrint(repo, t, d, content)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown flag: %q\n", flag)
		return 1
	}
	return 0
}

func prettyPrint(repo *vcs.Repository, t vcs.ObjectType, d vcs.Digest, content []byte) int {
	switch t {
	case vcs.TypeBlob:
		_, _ = os.Stdout.Write(content)
	case vcs.TypeTree:
		entries, err := repo.DecodeTreeContent(content)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 1
		}
		for _, e := range entries {
			fmt.Printf("%s %s %s\t%s\n", e.Mode, objectKindForMode(e.Mode), e.Dig, e.Name)
		}
	case vcs.TypeCommit:
		c, err := repo.GetCommit(d)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 1
		}
		fmt.Printf("tree %s\n", c.Tree)
		for _, p := range c.Parents {
			fmt.Printf("parent %s\n", p)
		}
		fmt.Printf("author %s %d +0000\n", c.Author, c.AuthorSec)
		fmt.Printf("committer %s %d +0000\n", c.Committer, c.CommitSec)
		fmt.Println()
		fmt.Println(c.Message)
	default:
		fmt.Fprintf(os.Stderr, "fatal: unknown object type: %q\n", t)
		return 1
	}
	return 0
}

func objectKindForMode(mode string) string {
	if mode == "40000" {
		return "tree"
	}
	return "blob"
}
