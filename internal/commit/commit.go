// Package commit classifies git commits by their conventional-commit subject.
//
// A subject such as "feat(api)!: drop v1 endpoints" is split into its type tag,
// optional scope and breaking-change marker. Subjects that do not follow the
// grammar are not an error: they are returned unclassified and take no part in
// increment resolution or changelog sectioning.
package commit

import (
	"regexp"
	"strings"
)

// BreakingChangeMarker flags a breaking change when found in a commit message.
// Matching is case-sensitive.
const BreakingChangeMarker = "BREAKING CHANGE"

// subjectPattern matches `type(scope)!: description` at the start of the subject.
// The scope is free-form text without a closing parenthesis.
var subjectPattern = regexp.MustCompile(`^(\w+)(?:\(([^)]*)\))?(!)?: (.*)$`)

// Commit is one unit of git history as reported by the git collaborator.
type Commit struct {
	SHA        string `json:"sha" yaml:"sha"`
	Subject    string `json:"subject" yaml:"subject"`
	AuthorName string `json:"author_name" yaml:"author_name"`
	Body       string `json:"body,omitempty" yaml:"body,omitempty"`
}

// ShortSHA returns the first seven characters of the commit hash.
func (c Commit) ShortSHA() string {
	if len(c.SHA) < 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// Classified is a commit together with its parsed conventional-commit header.
// An empty Type means the subject did not match the grammar.
type Classified struct {
	Commit   Commit `json:"commit" yaml:"commit"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Scope    string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Breaking bool   `json:"breaking" yaml:"breaking"`
}

// IsClassified reports whether the subject matched the conventional-commit grammar.
func (c Classified) IsClassified() bool {
	return c.Type != ""
}

// Header is the parsed form of a conventional-commit subject line.
type Header struct {
	Type        string
	Scope       string
	Bang        bool
	Description string
}

// ParseSubject parses a subject line. The second return value is false when the
// subject does not follow the conventional-commit grammar.
func ParseSubject(subject string) (Header, bool) {
	m := subjectPattern.FindStringSubmatch(subject)
	if m == nil {
		return Header{}, false
	}
	return Header{
		Type:        m[1],
		Scope:       m[2],
		Bang:        m[3] == "!",
		Description: m[4],
	}, true
}

// Classify derives the type tag and breaking flag of a single commit.
// The BREAKING CHANGE marker is read from the body only, and only for commits
// whose subject follows the grammar, so an unclassified commit never
// contributes to the increment.
func Classify(c Commit) Classified {
	result := Classified{Commit: c}

	h, ok := ParseSubject(c.Subject)
	if !ok {
		return result
	}

	result.Type = h.Type
	result.Scope = h.Scope
	result.Breaking = h.Bang || strings.Contains(c.Body, BreakingChangeMarker)
	return result
}

// ClassifyAll classifies every commit, preserving history order.
func ClassifyAll(commits []Commit) []Classified {
	classified := make([]Classified, len(commits))
	for i, c := range commits {
		classified[i] = Classify(c)
	}
	return classified
}
