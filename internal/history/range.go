// Package history selects the git commit range that a release is computed from.
//
// Given the previous release marker (tag name and commit SHA), the resolver
// finds the tag among the repository tags, falls back to the floating "latest"
// tag, and finally to a scan of the entire history. Shallow clones are widened
// just enough to reach the boundary commit; only full scans unshallow.
package history

import (
	"context"

	"github.com/glitch452/easy-npm-publish/internal/commit"
)

// FallbackTag is the floating tag consulted when the previous release tag is missing.
const FallbackTag = "latest"

// GitQuery is the git collaborator consumed by the resolver.
// Every method may block on the network or the filesystem.
type GitQuery interface {
	// IsShallow reports whether the clone is shallow.
	IsShallow(ctx context.Context) (bool, error)
	// FetchTags fetches all tags from the remote.
	FetchTags(ctx context.Context) error
	// ListTags returns the names of all local tags.
	ListTags(ctx context.Context) ([]string, error)
	// FetchShallowExclude deepens a shallow clone up to, but excluding, ref.
	FetchShallowExclude(ctx context.Context, ref string) error
	// FetchDeepen deepens a shallow clone by n commits.
	FetchDeepen(ctx context.Context, n int) error
	// FetchUnshallow converts a shallow clone into a complete one.
	FetchUnshallow(ctx context.Context) error
	// ResolveTagSHA returns the commit SHA that a tag points to.
	ResolveTagSHA(ctx context.Context, tag string) (string, error)
	// Log returns the commits in the range, newest first. An empty FromSHA
	// means the entire history reachable from ToSHA.
	Log(ctx context.Context, r Range) ([]commit.Commit, error)
}

// Outcome is the terminal state of range resolution.
type Outcome int

const (
	// OutcomeFullScan means no previous release was known.
	OutcomeFullScan Outcome = iota
	// OutcomeTagFound means the previous release tag was found and verified.
	OutcomeTagFound
	// OutcomeFallbackTag means the fallback tag stood in for a missing release tag.
	OutcomeFallbackTag
	// OutcomeFullScanFallback means neither tag was found and the entire history is scanned.
	OutcomeFullScanFallback
	// OutcomeEmptyRange means the workspace has not advanced since the release.
	OutcomeEmptyRange
)

// String returns a stable name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeFullScan:
		return "full-scan"
	case OutcomeTagFound:
		return "tag-found"
	case OutcomeFallbackTag:
		return "fallback-tag"
	case OutcomeFullScanFallback:
		return "full-scan-fallback"
	case OutcomeEmptyRange:
		return "empty-range"
	default:
		return "unknown"
	}
}

// IsWarning reports whether the outcome should be surfaced as a warning.
func (o Outcome) IsWarning() bool {
	return o == OutcomeFallbackTag || o == OutcomeFullScanFallback
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// PreviousRelease identifies the last published release.
type PreviousRelease struct {
	TagName string
	SHA     string
}

// Range is the resolved commit window. It is immutable once resolved.
type Range struct {
	// FromSHA is the exclusive start of the range. Empty means the entire history.
	FromSHA string `json:"from_sha,omitempty" yaml:"from_sha,omitempty"`
	// ToSHA is the inclusive end of the range, normally the head commit.
	ToSHA string `json:"to_sha" yaml:"to_sha"`
	// Outcome records how the range was resolved.
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	// Tag is the tag used as the start of the range, if any.
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// IsFullHistory reports whether the range covers the entire history.
func (r Range) IsFullHistory() bool {
	return r.FromSHA == ""
}

// IsEmpty reports whether the range contains no commits.
func (r Range) IsEmpty() bool {
	return r.Outcome == OutcomeEmptyRange
}

// Spec returns the git revision range syntax for the range.
func (r Range) Spec() string {
	if r.IsFullHistory() {
		return r.ToSHA
	}
	return r.FromSHA + ".." + r.ToSHA
}
