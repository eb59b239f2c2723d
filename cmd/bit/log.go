package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rybkr/bit/internal/termcolor"
	"github.com/rybkr/bit/internal/vcs"
)

func runLog(repo *vcs.Repository, args []string, cw *termcolor.Writer) int {
	maxCount := 0
	oneline := false

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--oneline":
			oneline = true
		case args[i] == "-n" && i+1 < len(args):
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: invalid -n value: %q\n", args[i])
				return 1
			}
			maxCount = n
		case strings.HasPrefix(args[i], "-n"):
			n, err := strconv.Atoi(args[i][2:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: invalid -n value: %q\n", args[i][2:])
				return 1
			}
			maxCount = n
		default:
			fmt.Fprintf(os.Stderr, "error: unknown option: %q\n", args[i])
			return 1
		}
	}

	commits, err := repo.FirstParentLog(maxCount)
	if err != nil {
		var noCommits *vcs.NoCommitsYetError
		if errors.As(err, &noCommits) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}

	names, current, err := repo.ListBranches()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}
	decorations := buildDecorations(repo, names, current)

	// Recompute digests alongside commits by walking the same chain, since
	// FirstParentLog returns decoded Commit values without their own digest.
	digests := commitDigests(repo, len(commits))

	for i, c := range commits {
		var d vcs.Digest
		if i < len(digests) {
			d = digests[i]
		}
		decor := ""
		if dec, ok := decorations[d]; ok {
			decor = " " + cw.Yellow("(") + dec + cw.Yellow(")")
		}

		if oneline {
			fmt.Printf("%s%s %s\n", cw.Yellow(d.Short()), decor, firstLine(c.Message))
			continue
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s %s%s\n", cw.Yellow("commit"), cw.Yellow(string(d)), decor)
		if len(c.Parents) > 1 {
			parentStrs := make([]string, len(c.Parents))
			for j, p := range c.Parents {
				parentStrs[j] = p.Short()
			}
			fmt.Printf("Merge: %s\n", strings.Join(parentStrs, " "))
		}
		fmt.Printf("Author: %s\n", c.Author)
		fmt.Println()
		for _, line := range strings.Split(c.Message, "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
	return 0
}

// commitDigests walks HEAD's first-parent chain the same way
// FirstParentLog does, recomputing each commit's digest by re-reading
// the branch tip and following Parents — so log output can decorate and
// print the hash alongside the decoded commit body.
func commitDigests(repo *vcs.Repository, n int) []vcs.Digest {
	head, hasCommit, err := repo.Refs().ResolveHead()
	if err != nil || !hasCommit {
		return nil
	}
	var out []vcs.Digest
	d := head
	for d != "" && (n <= 0 || len(out) < n) {
		out = append(out, d)
		c, err := repo.GetCommit(d)
		if err != nil || len(c.Parents) == 0 {
			break
		}
		d = c.Parents[0]
	}
	return out
}

func buildDecorations(repo *vcs.Repository, branches []string, current string) map[vcs.Digest]string {
	result := make(map[vcs.Digest]string)
	byDigest := make(map[vcs.Digest][]string)

	for _, name := range branches {
		d, ok, err := repo.Refs().ReadBranch(name)
		if err != nil || !ok {
			continue
		}
		label := name
		if name == current {
			label = "HEAD -> " + name
		}
		byDigest[d] = append(byDigest[d], label)
	}

	for d, labels := range byDigest {
		result[d] = strings.Join(labels, ", ")
	}
	return result
}

func firstLine(msg string) string {
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		return msg[:idx]
	}
	return msg
}
