package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// palette styles the parts of a formatted error.
type palette struct {
	label    func(a ...any) string
	message  func(a ...any) string
	category func(a ...any) string
	fix      func(a ...any) string
	usage    func(a ...any) string
	bullet   func(a ...any) string
}

var colored = palette{
	label:    color.New(color.FgRed, color.Bold).SprintFunc(),
	message:  color.New(color.FgRed).SprintFunc(),
	category: color.New(color.FgYellow).SprintFunc(),
	fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
	usage:    color.New(color.FgCyan).SprintFunc(),
	bullet:   color.New(color.FgGreen).SprintFunc(),
}

var plain = palette{
	label:    fmt.Sprint,
	message:  fmt.Sprint,
	category: fmt.Sprint,
	fix:      fmt.Sprint,
	usage:    fmt.Sprint,
	bullet:   fmt.Sprint,
}

// FormatError formats a CLIError with colors. fatih/color still strips them
// when stdout is not a terminal or NO_COLOR is set.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colored)
}

// FormatErrorPlain formats a CLIError without colors, as written to CI logs.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plain)
}

func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usage("Usage: "), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to w. Colors are used only when w
// is an interactive terminal.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	if isColorTerminal(w) {
		fmt.Fprint(w, FormatError(err))
		return
	}
	fmt.Fprint(w, FormatErrorPlain(err))
}

func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
