// Package versioning resolves the semantic-version increment implied by a set
// of classified commits and computes the next version from the current one.
package versioning

import (
	"fmt"
	"slices"

	"github.com/glitch452/easy-npm-publish/internal/commit"
)

// IncrementType is the semantic-version component to bump.
// Values are ordered by severity: IncrementMajor > IncrementMinor > IncrementPatch.
type IncrementType int

const (
	// IncrementNone means no version change. Only produced by Compute when an
	// override equals the current version.
	IncrementNone IncrementType = iota
	IncrementPatch
	IncrementMinor
	IncrementMajor
)

// String returns "major", "minor", "patch", or "" for IncrementNone.
func (t IncrementType) String() string {
	switch t {
	case IncrementMajor:
		return "major"
	case IncrementMinor:
		return "minor"
	case IncrementPatch:
		return "patch"
	default:
		return ""
	}
}

// ParseIncrementType parses "major", "minor" or "patch". An empty string
// yields IncrementNone.
func ParseIncrementType(s string) (IncrementType, error) {
	switch s {
	case "major":
		return IncrementMajor, nil
	case "minor":
		return IncrementMinor, nil
	case "patch":
		return IncrementPatch, nil
	case "":
		return IncrementNone, nil
	default:
		return IncrementNone, fmt.Errorf("unknown increment type %q (expected major, minor or patch)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t IncrementType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *IncrementType) UnmarshalText(text []byte) error {
	parsed, err := ParseIncrementType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Reason identifies the commit that decided a resolved increment.
// Commit is nil when the result is the patch default.
type Reason struct {
	Commit *commit.Classified
	// Breaking is set when the commit carries a breaking-change marker.
	Breaking bool
	// MajorType is set when the commit's type is a configured major type.
	MajorType bool
}

// Resolve folds classified commits into a single increment type.
//
// Any breaking commit, or any commit whose type is in majorTypes, yields
// IncrementMajor. Otherwise any commit whose type is in minorTypes yields
// IncrementMinor. Everything else, including an empty history, is IncrementPatch.
// Type matching is case-sensitive and majorTypes always dominates minorTypes.
func Resolve(commits []commit.Classified, majorTypes, minorTypes []string) IncrementType {
	t, _ := ResolveWithReason(commits, majorTypes, minorTypes)
	return t
}

// ResolveWithReason is Resolve, additionally reporting the first commit in
// history order that forced the result. When one commit is both breaking and
// of a major type, both flags are set on the reason.
func ResolveWithReason(commits []commit.Classified, majorTypes, minorTypes []string) (IncrementType, Reason) {
	result := IncrementPatch
	var reason Reason

	for i := range commits {
		c := &commits[i]
		severity := severityOf(c, majorTypes, minorTypes)
		if severity <= result {
			continue
		}

		result = severity
		reason = Reason{Commit: c}
		if severity == IncrementMajor {
			reason.Breaking = c.Breaking
			reason.MajorType = c.IsClassified() && slices.Contains(majorTypes, c.Type)
			break
		}
	}

	return result, reason
}

func severityOf(c *commit.Classified, majorTypes, minorTypes []string) IncrementType {
	if c.Breaking {
		return IncrementMajor
	}
	if !c.IsClassified() {
		return IncrementPatch
	}
	if slices.Contains(majorTypes, c.Type) {
		return IncrementMajor
	}
	if slices.Contains(minorTypes, c.Type) {
		return IncrementMinor
	}
	return IncrementPatch
}
