package history

import (
	"context"
	"fmt"
	"slices"

	"github.com/glitch452/easy-npm-publish/internal/commit"
	"go.uber.org/zap"
)

// Resolver determines which commits belong to the next release.
type Resolver struct {
	Git    GitQuery
	Logger *zap.Logger
}

// NewResolver creates a resolver. A nil logger disables logging.
func NewResolver(git GitQuery, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{Git: git, Logger: logger}
}

func (r *Resolver) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// ResolveRange selects the commit range between the previous release and headSHA.
//
// Without a previous release the entire history is scanned. Otherwise the
// release tag is used as the range start, or the "latest" tag when the release
// tag is missing; either tag must point to prev.SHA or a TagMismatchError is
// returned. When neither tag exists the entire history is scanned with a
// warning. A range whose start equals headSHA is empty.
func (r *Resolver) ResolveRange(ctx context.Context, prev *PreviousRelease, headSHA string) (Range, error) {
	shallow, err := r.Git.IsShallow(ctx)
	if err != nil {
		return Range{}, fmt.Errorf("checking for shallow repository: %w", err)
	}

	if prev == nil {
		r.logger().Debug("no previous release, scanning the full history")
		return r.fullScan(ctx, headSHA, shallow, OutcomeFullScan)
	}

	tag, outcome, err := r.selectTag(ctx, prev.TagName)
	if err != nil {
		return Range{}, err
	}

	if outcome == OutcomeFullScanFallback {
		r.logger().Info("release tags not found, loading the full git history",
			zap.String("tag", prev.TagName), zap.String("fallback_tag", FallbackTag))
		r.logger().Warn("retrieving the full history may cause performance issues for large repositories; enable git tagging to prevent this")
		return r.fullScan(ctx, headSHA, shallow, OutcomeFullScanFallback)
	}

	if outcome == OutcomeFallbackTag {
		r.logger().Warn("release tag not found, using the fallback tag",
			zap.String("tag", prev.TagName), zap.String("fallback_tag", tag))
	}

	return r.taggedRange(ctx, prev, tag, outcome, headSHA, shallow)
}

// selectTag picks the tag that marks the previous release. It returns
// OutcomeTagFound, OutcomeFallbackTag, or OutcomeFullScanFallback with an empty tag.
func (r *Resolver) selectTag(ctx context.Context, tagName string) (string, Outcome, error) {
	if err := r.Git.FetchTags(ctx); err != nil {
		return "", 0, fmt.Errorf("fetching tags: %w", err)
	}

	tags, err := r.Git.ListTags(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("listing tags: %w", err)
	}

	switch {
	case slices.Contains(tags, tagName):
		return tagName, OutcomeTagFound, nil
	case slices.Contains(tags, FallbackTag):
		return FallbackTag, OutcomeFallbackTag, nil
	default:
		return "", OutcomeFullScanFallback, nil
	}
}

// taggedRange widens a shallow clone up to the tag, verifies the tag commit
// and builds the range starting at it.
func (r *Resolver) taggedRange(
	ctx context.Context,
	prev *PreviousRelease,
	tag string,
	outcome Outcome,
	headSHA string,
	shallow bool,
) (Range, error) {
	if shallow {
		if err := r.widenTo(ctx, tag); err != nil {
			return Range{}, err
		}
	}

	actual, err := r.Git.ResolveTagSHA(ctx, tag)
	if err != nil {
		return Range{}, fmt.Errorf("resolving tag %q: %w", tag, err)
	}
	if actual != prev.SHA {
		return Range{}, &TagMismatchError{Tag: tag, Expected: prev.SHA, Actual: actual}
	}

	rng := Range{FromSHA: prev.SHA, ToSHA: headSHA, Outcome: outcome, Tag: tag}
	if prev.SHA == headSHA {
		rng.Outcome = OutcomeEmptyRange
	}

	r.logger().Debug("git history range resolved",
		zap.String("tag_used", tag),
		zap.String("requested_tag", prev.TagName),
		zap.String("from_sha", rng.FromSHA),
		zap.String("to_sha", rng.ToSHA),
		zap.Stringer("outcome", rng.Outcome))

	return rng, nil
}

// widenTo deepens a shallow clone until the tag commit is reachable, then one
// more commit so the tag commit itself can be used as the range boundary.
func (r *Resolver) widenTo(ctx context.Context, tag string) error {
	r.logger().Debug("deepening shallow clone", zap.String("tag", tag))

	if err := r.Git.FetchShallowExclude(ctx, tag); err != nil {
		return fmt.Errorf("deepening history to tag %q: %w", tag, err)
	}
	if err := r.Git.FetchDeepen(ctx, 1); err != nil {
		return fmt.Errorf("deepening history past tag %q: %w", tag, err)
	}
	return nil
}

// fullScan builds a range over the entire history, unshallowing first.
func (r *Resolver) fullScan(ctx context.Context, headSHA string, shallow bool, outcome Outcome) (Range, error) {
	if shallow {
		r.logger().Debug("unshallowing clone for full history scan")
		if err := r.Git.FetchUnshallow(ctx); err != nil {
			return Range{}, fmt.Errorf("unshallowing repository: %w", err)
		}
	}
	return Range{ToSHA: headSHA, Outcome: outcome}, nil
}

// Commits returns the commits of a resolved range, newest first.
// An empty range yields no commits without querying git.
func (r *Resolver) Commits(ctx context.Context, rng Range) ([]commit.Commit, error) {
	if rng.IsEmpty() {
		return nil, nil
	}

	commits, err := r.Git.Log(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("reading git log %s: %w", rng.Spec(), err)
	}
	return commits, nil
}
