package versioning

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-version"
)

// strictSemver is the semver 2.0 grammar with an optional "v" prefix.
// go-version alone also accepts one- and two-component versions, which are
// not valid release versions here.
var strictSemver = regexp.MustCompile(`^v?(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
	`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

// SemVer is an immutable three-component semantic version.
// The zero value is not a valid version; use Parse or MustParse.
type SemVer struct {
	v *version.Version
}

// Parse parses a semantic version such as "1.2.3", "v1.2.3-rc.1" or "1.2.3+build.5".
func Parse(s string) (SemVer, error) {
	trimmed := strings.TrimSpace(s)
	if !strictSemver.MatchString(trimmed) {
		return SemVer{}, &InvalidVersionError{Input: s}
	}

	v, err := version.NewSemver(trimmed)
	if err != nil {
		return SemVer{}, &InvalidVersionError{Input: s, Err: err}
	}
	return SemVer{v: v}, nil
}

// ParseField is Parse with the error naming the value being parsed, such as
// "current", "override" or "registry".
func ParseField(s, field string) (SemVer, error) {
	v, err := Parse(s)
	if err != nil {
		return SemVer{}, withField(err, field)
	}
	return v, nil
}

// MustParse is like Parse but panics on invalid input. Intended for constants and tests.
func MustParse(s string) SemVer {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether the version was never set.
func (s SemVer) IsZero() bool {
	return s.v == nil
}

// Major returns the major component.
func (s SemVer) Major() int64 { return s.segment(0) }

// Minor returns the minor component.
func (s SemVer) Minor() int64 { return s.segment(1) }

// Patch returns the patch component.
func (s SemVer) Patch() int64 { return s.segment(2) }

// Prerelease returns the pre-release identifier without the leading "-".
func (s SemVer) Prerelease() string {
	if s.v == nil {
		return ""
	}
	return s.v.Prerelease()
}

// Metadata returns the build metadata without the leading "+".
func (s SemVer) Metadata() string {
	if s.v == nil {
		return ""
	}
	return s.v.Metadata()
}

func (s SemVer) segment(i int) int64 {
	if s.v == nil {
		return 0
	}
	return s.v.Segments64()[i]
}

// String returns the canonical form without a "v" prefix.
func (s SemVer) String() string {
	if s.v == nil {
		return ""
	}
	return s.v.String()
}

// Compare returns -1, 0 or 1 following semver precedence. Build metadata is ignored.
func (s SemVer) Compare(other SemVer) int {
	return s.v.Compare(other.v)
}

// Equal reports whether both versions have the same precedence.
func (s SemVer) Equal(other SemVer) bool {
	return s.Compare(other) == 0
}

// MarshalText implements encoding.TextMarshaler so versions render as strings
// in JSON and YAML output.
func (s SemVer) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SemVer) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Increment returns the next version for the given increment type.
//
// A pre-release version is finished rather than bumped when the components
// below the increment are already zero, so 1.2.0-rc.1 with a minor increment
// becomes 1.2.0. Build metadata is never carried over. IncrementNone returns
// the version unchanged.
func (s SemVer) Increment(t IncrementType) SemVer {
	major, minor, patch := s.Major(), s.Minor(), s.Patch()
	pre := s.Prerelease() != ""

	switch t {
	case IncrementMajor:
		if !pre || minor != 0 || patch != 0 {
			major++
		}
		minor, patch = 0, 0
	case IncrementMinor:
		if !pre || patch != 0 {
			minor++
		}
		patch = 0
	case IncrementPatch:
		if !pre {
			patch++
		}
	default:
		return s
	}

	return MustParse(fmt.Sprintf("%d.%d.%d", major, minor, patch))
}

// Diff returns the most significant numeric component that differs between
// two versions. Versions that differ only in pre-release or build metadata
// yield IncrementNone.
func Diff(from, to SemVer) IncrementType {
	switch {
	case from.Major() != to.Major():
		return IncrementMajor
	case from.Minor() != to.Minor():
		return IncrementMinor
	case from.Patch() != to.Patch():
		return IncrementPatch
	default:
		return IncrementNone
	}
}
