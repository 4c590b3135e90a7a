package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// SectionStyle defines the color and icon for a changelog section.
type SectionStyle struct {
	Color *color.Color
	Icon  string
}

// sectionStyles maps commit types to their terminal styling.
var sectionStyles = map[string]SectionStyle{
	"feat":     {Color: color.New(color.FgGreen), Icon: "✓"},
	"fix":      {Color: color.New(color.FgYellow), Icon: "⚡"},
	"perf":     {Color: color.New(color.FgCyan), Icon: "»"},
	"revert":   {Color: color.New(color.FgRed), Icon: "↺"},
	"refactor": {Color: color.New(color.FgBlue), Icon: "~"},
}

// defaultStyle is used for types without a dedicated style.
var defaultStyle = SectionStyle{Color: color.New(color.FgWhite), Icon: "•"}

// majorStyle marks sections of configured major types.
var majorStyle = SectionStyle{Color: color.New(color.FgRed, color.Bold), Icon: "⚠"}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain      bool     // Disable colors and icons
	MaxWidth   int      // Maximum line width (0 = auto-detect)
	MajorTypes []string // Types highlighted as major changes
}

// FormatTerminal writes the sections with terminal styling.
func FormatTerminal(sections []Section, w io.Writer, opts FormatOptions) error {
	if len(sections) == 0 {
		_, err := fmt.Fprintln(w, "No conventional commits found in range.")
		return err
	}

	width := resolveWidth(opts.MaxWidth)

	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := writeSection(&s, w, opts, width); err != nil {
			return fmt.Errorf("formatting section %s: %w", s.Type, err)
		}
	}

	return nil
}

// styleFor returns the style of a section type.
func styleFor(typ string, opts FormatOptions) SectionStyle {
	for _, major := range opts.MajorTypes {
		if major == typ {
			return majorStyle
		}
	}
	if style, ok := sectionStyles[typ]; ok {
		return style
	}
	return defaultStyle
}

// writeSection writes a single section with its entries.
func writeSection(s *Section, w io.Writer, opts FormatOptions, width int) error {
	style := styleFor(s.Type, opts)

	if err := writeSectionHeader(s.Title, style, w, opts); err != nil {
		return err
	}

	for _, entry := range s.Entries {
		text := entry.Commit.Subject + " (" + entry.Commit.ShortSHA() + ")"
		if err := writeEntry(text, style, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

// writeSectionHeader writes the section header line.
func writeSectionHeader(title string, style SectionStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "### %s\n", title)
		return err
	}

	colored := style.Color.SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "%s %s\n", colored(style.Icon), bold(title))
	return err
}

// writeEntry writes a single changelog entry with optional wrapping.
func writeEntry(text string, style SectionStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	wrapped := wrapText(text, width-len(prefix), "    ")

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
