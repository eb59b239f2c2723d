// Package progress provides terminal progress indicators for long-running
// engine operations (checkout's tree materialization, add's recursive
// directory staging).
package progress

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/rybkr/bit/internal/termcolor"
)

// Spinner displays an animated spinner on stderr while a long-running
// operation is in progress. It is only displayed when stderr is a TTY;
// in non-interactive environments (piped output, CI, E2E tests) it is
// silent, matching the teacher's own termcolor.IsTerminal guard.
type Spinner struct {
	msg    string
	active *pterm.SpinnerPrinter
}

// New creates a Spinner that will display msg alongside the animation.
func New(msg string) *Spinner {
	return &Spinner{msg: msg}
}

// Start begins the spinner animation. A no-op when stderr is not a TTY.
func (s *Spinner) Start() {
	if !termcolor.IsTerminal(os.Stderr.Fd()) {
		return
	}
	printer, err := pterm.DefaultSpinner.WithWriter(os.Stderr).Start(s.msg)
	if err != nil {
		return
	}
	s.active = printer
}

// Stop halts the spinner animation and clears the line.
func (s *Spinner) Stop() {
	if s.active == nil {
		return
	}
	_ = s.active.Stop()
	s.active = nil
}

// UpdateMessage changes the spinner's text mid-flight (e.g. reporting
// which file is currently being staged or materialized).
func (s *Spinner) UpdateMessage(msg string) {
	s.msg = msg
	if s.active != nil {
		s.active.UpdateText(msg)
	}
}
