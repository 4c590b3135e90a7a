// Package progress shows a spinner while long-running git operations run on
// an interactive terminal.
package progress

// TerminalCapabilities describes what the attached terminal can render.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols is the symbol set for step completion and spinner frames.
type ProgressSymbols struct {
	Checkmark string
	Failure   string
	// SpinnerSet indexes spinner.CharSets.
	SpinnerSet int
}
