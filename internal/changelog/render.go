package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/glitch452/easy-npm-publish/internal/commit"
)

// RenderOptions controls the markdown release body.
type RenderOptions struct {
	// CommitURL is the base URL that a commit SHA is appended to for linking,
	// e.g. "https://github.com/owner/repo/commit". Empty disables links.
	CommitURL string
}

// RenderMarkdown writes the sections as a markdown release body: one "##"
// header per section followed by one bullet per commit.
//
// The function is idempotent - given the same input, it produces identical output.
func RenderMarkdown(sections []Section, w io.Writer, opts RenderOptions) error {
	for i, s := range sections {
		if err := renderSection(&s, w, opts, i == 0); err != nil {
			return fmt.Errorf("rendering section %s: %w", s.Type, err)
		}
	}
	return nil
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(sections []Section, opts RenderOptions) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(sections, &b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderSection writes a single section header and its entries.
func renderSection(s *Section, w io.Writer, opts RenderOptions, isFirst bool) error {
	if !isFirst {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "## "+s.Title+"\n\n"); err != nil {
		return err
	}

	for _, entry := range s.Entries {
		if _, err := io.WriteString(w, formatEntryLine(entry, opts)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// formatEntryLine formats "- subject (sha)" with the sha linked when possible.
func formatEntryLine(entry commit.Classified, opts RenderOptions) string {
	return fmt.Sprintf("- %s (%s)", entry.Commit.Subject, commitReference(entry.Commit, opts))
}

func commitReference(c commit.Commit, opts RenderOptions) string {
	short := c.ShortSHA()
	if opts.CommitURL == "" || c.SHA == "" {
		return short
	}
	return fmt.Sprintf("[%s](%s/%s)", short, strings.TrimSuffix(opts.CommitURL, "/"), c.SHA)
}
