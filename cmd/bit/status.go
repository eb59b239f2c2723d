package main

import (
	"fmt"
	"sort"

	"github.com/rybkr/bit/internal/termcolor"
	"github.com/rybkr/bit/internal/vcs"
)

func runStatus(repo *vcs.Repository, args []string, cw *termcolor.Writer) int {
	st, err := repo.ComputeStatus()
	if err != nil {
		fmt.Printf("fatal: %v\n", err)
		return 1
	}

	_, detached, err := repo.Refs().ReadHead()
	if err != nil {
		fmt.Printf("fatal: %v\n", err)
		return 1
	}
	if detached {
		fmt.Println("HEAD detached")
	} else {
		branch, err := repo.Refs().CurrentBranch()
		if err != nil {
			fmt.Printf("fatal: %v\n", err)
			return 1
		}
		fmt.Printf("On branch %s\n", branch)
	}

	sort.Slice(st.Staged, func(i, j int) bool { return st.Staged[i].Path < st.Staged[j].Path })
	sort.Strings(st.Unstaged)
	sort.Strings(st.Untracked)
	sort.Strings(st.Deleted)

	if len(st.Staged) > 0 {
		fmt.Println("Changes to be committed:")
		for _, e := range st.Staged {
			fmt.Println("\t" + cw.StatusColor(true, fmt.Sprintf("%s:   %s", e.Kind, e.Path)))
		}
		fmt.Println()
	}

	if len(st.Unstaged) > 0 || len(st.Deleted) > 0 {
		fmt.Println("Changes not staged for commit:")
		for _, p := range st.Unstaged {
			fmt.Println("\t" + cw.StatusColor(false, "modified:   "+p))
		}
		for _, p := range st.Deleted {
			fmt.Println("\t" + cw.StatusColor(false, "deleted:    "+p))
		}
		fmt.Println()
	}

	if len(st.Untracked) > 0 {
		fmt.Println("Untracked files:")
		for _, p := range st.Untracked {
			fmt.Println("\t" + cw.StatusColor(false, p))
		}
		fmt.Println()
	}

	if len(st.Staged) == 0 && len(st.Unstaged) == 0 && len(st.Untracked) == 0 && len(st.Deleted) == 0 {
		fmt.Println("nothing to commit, working tree clean")
	}
	return 0
}
