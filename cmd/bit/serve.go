package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rybkr/bit/internal/dashboard"
	"github.com/rybkr/bit/internal/vcs"
)

func runServe(repo *vcs.Repository, args []string) int {
	addr := "localhost:7417"
	for i := 0; i < len(args); i++ {
		if args[i] == "--addr" && i+1 < len(args) {
			i++
			addr = args[i]
			continue
		}
		fmt.Fprintf(os.Stderr, "error: unknown option: %q\n", args[i])
		return 1
	}

	d := dashboard.New(repo, addr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		d.Shutdown()
	}()

	fmt.Printf("Serving dashboard for %s on http://%s\n", repo.WorkDir(), addr)
	if err := d.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}
	return 0
}
