package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner wraps a terminal spinner. On a non-interactive terminal it is a
// no-op apart from the final status line.
type Spinner struct {
	out     io.Writer
	symbols ProgressSymbols
	enabled bool
	s       *spinner.Spinner
	message string
}

// NewSpinner creates a spinner writing to out (stderr when nil).
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	if out == nil {
		out = os.Stderr
	}
	symbols := SelectSymbols(caps)
	sp := &Spinner{out: out, symbols: symbols, enabled: caps.IsTTY}
	if sp.enabled {
		opt := spinner.WithWriter(out)
		if f, ok := out.(*os.File); ok {
			opt = spinner.WithWriterFile(f)
		}
		sp.s = spinner.New(spinner.CharSets[symbols.SpinnerSet], 100*time.Millisecond, opt)
		if caps.SupportsColor {
			_ = sp.s.Color("cyan")
		}
	}
	return sp
}

// Start begins spinning with message as the suffix.
func (sp *Spinner) Start(message string) {
	sp.message = message
	if !sp.enabled {
		return
	}
	sp.s.Suffix = " " + message
	sp.s.Start()
}

// Stop halts the spinner and prints a success or failure line.
func (sp *Spinner) Stop(err error) {
	if sp.enabled {
		sp.s.Stop()
	}
	if err != nil {
		fmt.Fprintf(sp.out, "%s %s\n", sp.symbols.Failure, sp.message)
		return
	}
	if sp.enabled {
		fmt.Fprintf(sp.out, "%s %s\n", sp.symbols.Checkmark, sp.message)
	}
}

// Run shows the spinner while fn runs.
func (sp *Spinner) Run(message string, fn func() error) error {
	sp.Start(message)
	err := fn()
	sp.Stop(err)
	return err
}
