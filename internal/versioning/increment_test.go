// Package versioning tests increment resolution from classified commits.
// Related: internal/versioning/increment.go
// Tags: versioning, increment, major, minor, patch

package versioning

import (
	"testing"

	"github.com/glitch452/easy-npm-publish/internal/commit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classified(typ string, breaking bool) commit.Classified {
	return commit.Classified{
		Commit:   commit.Commit{SHA: typ + "-sha", Subject: typ + ": change"},
		Type:     typ,
		Breaking: breaking,
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		commits    []commit.Classified
		majorTypes []string
		minorTypes []string
		want       IncrementType
	}{
		"empty history is patch": {
			minorTypes: []string{"feat"},
			want:       IncrementPatch,
		},
		"breaking commit is major regardless of lists": {
			commits: []commit.Classified{classified("fix", false), classified("docs", true)},
			want:    IncrementMajor,
		},
		"breaking commit with unrelated lists is major": {
			commits:    []commit.Classified{classified("chore", true)},
			majorTypes: []string{"perf"},
			minorTypes: []string{"feat"},
			want:       IncrementMajor,
		},
		"unclassified breaking commit is major": {
			commits: []commit.Classified{{Commit: commit.Commit{SHA: "x"}, Breaking: true}},
			want:    IncrementMajor,
		},
		"major type is major": {
			commits:    []commit.Classified{classified("fix", false), classified("perf", false)},
			majorTypes: []string{"perf"},
			minorTypes: []string{"feat"},
			want:       IncrementMajor,
		},
		"minor type is minor": {
			commits:    []commit.Classified{classified("fix", false), classified("feat", false)},
			minorTypes: []string{"feat"},
			want:       IncrementMinor,
		},
		"no matches is patch": {
			commits:    []commit.Classified{classified("fix", false), classified("docs", false)},
			majorTypes: []string{"perf"},
			minorTypes: []string{"feat"},
			want:       IncrementPatch,
		},
		"major dominates minor for the same type": {
			commits:    []commit.Classified{classified("feat", false)},
			majorTypes: []string{"feat"},
			minorTypes: []string{"feat"},
			want:       IncrementMajor,
		},
		"major dominates minor across commits": {
			commits:    []commit.Classified{classified("feat", false), classified("perf", false)},
			majorTypes: []string{"perf"},
			minorTypes: []string{"feat"},
			want:       IncrementMajor,
		},
		"matching is case sensitive": {
			commits:    []commit.Classified{classified("Feat", false)},
			minorTypes: []string{"feat"},
			want:       IncrementPatch,
		},
		"unclassified commits do not contribute": {
			commits:    []commit.Classified{{Commit: commit.Commit{SHA: "x", Subject: "feat"}}},
			minorTypes: []string{"feat"},
			want:       IncrementPatch,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Resolve(tt.commits, tt.majorTypes, tt.minorTypes))
		})
	}
}

func TestResolve_OrderIndependent(t *testing.T) {
	t.Parallel()

	commits := []commit.Classified{
		classified("fix", false),
		classified("feat", false),
		classified("docs", false),
		classified("perf", false),
	}
	reversed := []commit.Classified{commits[3], commits[2], commits[1], commits[0]}
	majors := []string{"perf"}
	minors := []string{"feat"}

	assert.Equal(t, Resolve(commits, majors, minors), Resolve(reversed, majors, minors))
}

func TestResolveWithReason(t *testing.T) {
	t.Parallel()

	t.Run("patch default has no commit", func(t *testing.T) {
		t.Parallel()

		got, reason := ResolveWithReason([]commit.Classified{classified("fix", false)}, nil, []string{"feat"})
		assert.Equal(t, IncrementPatch, got)
		assert.Nil(t, reason.Commit)
	})

	t.Run("first decisive commit is reported", func(t *testing.T) {
		t.Parallel()

		commits := []commit.Classified{
			classified("feat", false),
			classified("perf", false),
			classified("fix", true),
		}
		got, reason := ResolveWithReason(commits, []string{"perf"}, []string{"feat"})
		assert.Equal(t, IncrementMajor, got)
		require.NotNil(t, reason.Commit)
		assert.Equal(t, "perf", reason.Commit.Type)
		assert.True(t, reason.MajorType)
		assert.False(t, reason.Breaking)
	})

	t.Run("breaking major type records both reasons", func(t *testing.T) {
		t.Parallel()

		got, reason := ResolveWithReason([]commit.Classified{classified("perf", true)}, []string{"perf"}, nil)
		assert.Equal(t, IncrementMajor, got)
		assert.True(t, reason.MajorType)
		assert.True(t, reason.Breaking)
	})
}

func TestIncrementType_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   IncrementType
		want string
	}{
		"major": {in: IncrementMajor, want: "major"},
		"minor": {in: IncrementMinor, want: "minor"},
		"patch": {in: IncrementPatch, want: "patch"},
		"none":  {in: IncrementNone, want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.in.String())
			parsed, err := ParseIncrementType(tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.in, parsed)
		})
	}
}

func TestParseIncrementType_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseIncrementType("premajor")
	assert.Error(t, err)
}

func TestIncrementType_Ordering(t *testing.T) {
	t.Parallel()

	assert.Greater(t, IncrementMajor, IncrementMinor)
	assert.Greater(t, IncrementMinor, IncrementPatch)
	assert.Greater(t, IncrementPatch, IncrementNone)
}
