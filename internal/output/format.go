// Package output provides terminal output formatting and GitHub Actions step
// outputs for easy-npm-publish.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintSeparator prints a dim labelled rule across the terminal.
func PrintSeparator(out io.Writer, label string) {
	termWidth := GetTerminalWidth()
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label = " " + label + " "
	lineLen := (termWidth - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "\n%s%s%s\n", magenta(line), magenta(label), magenta(line))
}

// PrintStepHeader prints a colored step header (e.g., "[Step 2/9] Reading package manifest...").
func PrintStepHeader(out io.Writer, stepNum, totalSteps int, stepName string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", cyan(fmt.Sprintf("[Step %d/%d]", stepNum, totalSteps)), white(stepName+"..."))
}

// PrintStepSuccess prints a green checkmark followed by message.
func PrintStepSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}

// PrintVersionSummary prints the outputs as an aligned, colored table.
func PrintVersionSummary(out io.Writer, outputs []Pair) {
	width := 0
	for _, o := range outputs {
		width = max(width, len(o.Name))
	}

	label := color.New(color.Faint).SprintFunc()
	value := color.New(color.FgGreen, color.Bold).SprintFunc()
	for _, o := range outputs {
		fmt.Fprintf(out, "%s %s\n", label(fmt.Sprintf("%-*s", width+1, o.Name+":")), value(o.Value))
	}
}
