// Package commit tests conventional-commit subject parsing and classification.
// Related: internal/commit/commit.go
// Tags: commit, classification, conventional-commits, breaking-change

package commit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSubject(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		subject string
		want    Header
		wantOK  bool
	}{
		"type only": {
			subject: "fix: handle empty input",
			want:    Header{Type: "fix", Description: "handle empty input"},
			wantOK:  true,
		},
		"type with scope": {
			subject: "feat(parser): support scopes",
			want:    Header{Type: "feat", Scope: "parser", Description: "support scopes"},
			wantOK:  true,
		},
		"bang marker": {
			subject: "feat!: add X",
			want:    Header{Type: "feat", Bang: true, Description: "add X"},
			wantOK:  true,
		},
		"scope and bang marker": {
			subject: "refactor(core/api v2)!: rename client",
			want:    Header{Type: "refactor", Scope: "core/api v2", Bang: true, Description: "rename client"},
			wantOK:  true,
		},
		"empty scope": {
			subject: "chore(): tidy",
			want:    Header{Type: "chore", Description: "tidy"},
			wantOK:  true,
		},
		"no colon": {
			subject: "Merge branch 'main' into feature",
			wantOK:  false,
		},
		"missing space after colon": {
			subject: "feat:add X",
			wantOK:  false,
		},
		"bang after colon": {
			subject: "feat:! add X",
			wantOK:  false,
		},
		"type not at line start": {
			subject: " feat: add X",
			wantOK:  false,
		},
		"unterminated scope": {
			subject: "feat(parser: add X",
			wantOK:  false,
		},
		"empty subject": {
			subject: "",
			wantOK:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseSubject(tt.subject)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		commit       Commit
		wantType     string
		wantScope    string
		wantBreaking bool
	}{
		"bang marks breaking": {
			commit:       Commit{SHA: "a1", Subject: "feat!: add X"},
			wantType:     "feat",
			wantBreaking: true,
		},
		"footer marks breaking": {
			commit: Commit{
				SHA:     "a2",
				Subject: "fix(api): change response shape",
				Body:    "Details.\n\nBREAKING CHANGE: the id field is now a string",
			},
			wantType:     "fix",
			wantScope:    "api",
			wantBreaking: true,
		},
		"footer marker is case sensitive": {
			commit: Commit{
				SHA:     "a3",
				Subject: "fix: small change",
				Body:    "breaking change: not really",
			},
			wantType: "fix",
		},
		"marker in subject is not a footer": {
			commit:   Commit{SHA: "a7", Subject: "feat: BREAKING CHANGE drop v1 api"},
			wantType: "feat",
		},
		"plain feature": {
			commit:   Commit{SHA: "a4", Subject: "feat: add Y"},
			wantType: "feat",
		},
		"malformed subject is unclassified": {
			commit: Commit{SHA: "a5", Subject: "update readme"},
		},
		"malformed subject ignores footer marker": {
			commit: Commit{SHA: "a6", Subject: "update readme", Body: "BREAKING CHANGE: nope"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tt.commit)
			assert.Equal(t, tt.commit, got.Commit)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantScope, got.Scope)
			assert.Equal(t, tt.wantBreaking, got.Breaking)
			assert.Equal(t, tt.wantType != "", got.IsClassified())
		})
	}
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	t.Parallel()

	commits := []Commit{
		{SHA: "3", Subject: "fix: c"},
		{SHA: "2", Subject: "not conventional"},
		{SHA: "1", Subject: "feat: a"},
	}

	got := ClassifyAll(commits)

	if assert.Len(t, got, 3) {
		assert.Equal(t, "3", got[0].Commit.SHA)
		assert.Equal(t, "fix", got[0].Type)
		assert.False(t, got[1].IsClassified())
		assert.Equal(t, "feat", got[2].Type)
	}
	assert.Empty(t, ClassifyAll(nil))
}

func TestCommit_ShortSHA(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0123456", Commit{SHA: "0123456789abcdef"}.ShortSHA())
	assert.Equal(t, "abc", Commit{SHA: "abc"}.ShortSHA())
}
