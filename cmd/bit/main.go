// Command bit is the CLI front end for the content-addressed version
// control engine in internal/vcs.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/rybkr/bit/internal/cli"
	"github.com/rybkr/bit/internal/termcolor"
	"github.com/rybkr/bit/internal/vcs"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	gf, args := parseGlobalFlags(os.Args[1:])

	for _, a := range args {
		if a == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	cw := termcolor.NewWriter(os.Stdout, gf.colorMode)

	app := cli.NewApp("bit", version)
	app.Stderr = os.Stderr

	// repo is populated by app.RepoLoader, which App.Run calls only for
	// commands with NeedsRepo set, before invoking their Run closures.
	var repo *vcs.Repository
	app.RepoLoader = func() error {
		repoPath := os.Getenv("BIT_DIR")
		if repoPath == "" {
			repoPath = "."
		}
		root, err := vcs.FindRepositoryRoot(repoPath)
		if err != nil {
			return err
		}
		repo, err = vcs.Open(root)
		return err
	}

	app.Register(&cli.Command{
		Name:    "init",
		Summary: "Create an empty repository",
		Usage:   "bit init",
		Run:     func(args []string) int { return runInit(args) },
	})

	app.Register(&cli.Command{
		Name:      "add",
		Summary:   "Stage files or directories",
		Usage:     "bit add <path>...",
		Examples:  []string{"bit add README.md", "bit add ."},
		NeedsRepo: true,
		Run:       func(args []string) int { return runAdd(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "commit",
		Summary:   "Record staged changes",
		Usage:     "bit commit -m <message> [--author <identity>]",
		Examples:  []string{`bit commit -m "initial commit"`},
		NeedsRepo: true,
		Run:       func(args []string) int { return runCommit(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "checkout",
		Summary:   "Switch branches and update the working tree",
		Usage:     "bit checkout [-b] <branch>",
		Examples:  []string{"bit checkout master", "bit checkout -b feature"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runCheckout(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "branch",
		Summary:   "List, create, or delete branches",
		Usage:     "bit branch [-d] [<name>]",
		Examples:  []string{"bit branch", "bit branch feature", "bit branch -d feature"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runBranch(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "log",
		Summary:   "Show commit log",
		Usage:     "bit log [-n <count>] [--oneline]",
		Examples:  []string{"bit log", "bit log -n 5 --oneline"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runLog(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "status",
		Summary:   "Show staged, unstaged, and untracked changes",
		Usage:     "bit status",
		NeedsRepo: true,
		Run:       func(args []string) int { return runStatus(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "cat-file",
		Summary:   "Show object content, type, or size",
		Usage:     "bit cat-file (-t|-s|-p) <digest>",
		Examples:  []string{"bit cat-file -p ce013625030ba8dba906f756967f9e9ca394464a"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runCatFile(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "serve",
		Summary:   "Serve a local live status/log dashboard over HTTP",
		Usage:     "bit serve [--addr host:port]",
		NeedsRepo: true,
		Run:       func(args []string) int { return runServe(repo, args) },
	})

	app.Register(&cli.Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "bit version",
		Run:     func([]string) int { printVersion(); return 0 },
	})

	os.Exit(app.Run(args, cw))
}

func printVersion() {
	fmt.Printf("bit %s\n", version)
	fmt.Printf("  commit:     %s\n", commit)
	fmt.Printf("  go version: %s\n", runtime.Version())
	fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
