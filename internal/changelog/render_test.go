// Package changelog tests markdown, terminal and YAML rendering of sections.
// Related: internal/changelog/render.go, internal/changelog/format.go, internal/changelog/export.go
// Tags: changelog, render, markdown, terminal, yaml

package changelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRenderMarkdownString(t *testing.T) {
	t.Parallel()

	sections := Build(classify("feat: add login", "fix: null check", "feat: add logout"), NewTitleMap(nil), nil)

	tests := map[string]struct {
		opts        RenderOptions
		want        string
		notContains []string
	}{
		"without links": {
			want: "## Features\n\n" +
				"- feat: add login (a000000)\n" +
				"- feat: add logout (c000000)\n" +
				"\n## Bug Fixes\n\n" +
				"- fix: null check (b000000)\n",
			notContains: []string{"]("},
		},
		"with links": {
			opts: RenderOptions{CommitURL: "https://github.com/acme/widgets/commit/"},
			want: "## Features\n\n" +
				"- feat: add login ([a000000](https://github.com/acme/widgets/commit/a000000000))\n" +
				"- feat: add logout ([c000000](https://github.com/acme/widgets/commit/c000000000))\n" +
				"\n## Bug Fixes\n\n" +
				"- fix: null check ([b000000](https://github.com/acme/widgets/commit/b000000000))\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := RenderMarkdownString(sections, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			for _, s := range tt.notContains {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestRenderMarkdown_Idempotent(t *testing.T) {
	t.Parallel()

	sections := Build(classify("perf: faster", "fix: a"), NewTitleMap(nil), []string{"perf"})

	first, err := RenderMarkdownString(sections, RenderOptions{})
	require.NoError(t, err)
	second, err := RenderMarkdownString(sections, RenderOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "## Performance Improvements"))
}

func TestRenderMarkdown_Empty(t *testing.T) {
	t.Parallel()

	got, err := RenderMarkdownString(nil, RenderOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFormatTerminal_Plain(t *testing.T) {
	t.Parallel()

	sections := Build(classify("feat: add login", "docs: readme"), NewTitleMap(nil), nil)

	var buf bytes.Buffer
	err := FormatTerminal(sections, &buf, FormatOptions{Plain: true, MaxWidth: 80})
	require.NoError(t, err)

	assert.Equal(t, "### Features\n  - feat: add login (a000000)\n\n### Documentation\n  - docs: readme (b000000)\n", buf.String())
}

func TestFormatTerminal_NoSections(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, FormatTerminal(nil, &buf, FormatOptions{Plain: true}))
	assert.Contains(t, buf.String(), "No conventional commits")
}

func TestStyleFor(t *testing.T) {
	t.Parallel()

	opts := FormatOptions{MajorTypes: []string{"perf"}}
	assert.Equal(t, majorStyle, styleFor("perf", opts))
	assert.Equal(t, sectionStyles["feat"], styleFor("feat", opts))
	assert.Equal(t, defaultStyle, styleFor("unknown", opts))
}

func TestWrapText(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text     string
		maxWidth int
		want     string
	}{
		"short text untouched": {text: "short", maxWidth: 20, want: "short"},
		"zero width untouched": {text: "some longer text", maxWidth: 0, want: "some longer text"},
		"wraps at space":       {text: "aaaa bbbb cccc", maxWidth: 9, want: "aaaa bbbb\n  cccc"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, wrapText(tt.text, tt.maxWidth, "  "))
		})
	}
}

func TestRenderYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	sections := Build(classify("feat!: breaking", "fix(core): a"), NewTitleMap(nil), nil)

	var buf bytes.Buffer
	require.NoError(t, RenderYAML(sections, &buf))
	assert.Contains(t, buf.String(), "title: Features")
	assert.Contains(t, buf.String(), "breaking: true")
	assert.Contains(t, buf.String(), "scope: core")

	var loaded []Section
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &loaded))
	assert.Equal(t, sections, loaded)
}

func TestRenderYAML_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderYAML(nil, &buf))
	assert.Equal(t, "[]\n", buf.String())
}
