package workflow

import (
	"context"
	"fmt"

	"github.com/glitch452/easy-npm-publish/internal/changelog"
	"github.com/glitch452/easy-npm-publish/internal/commit"
	"github.com/glitch452/easy-npm-publish/internal/history"
	"github.com/glitch452/easy-npm-publish/internal/versioning"
	"go.uber.org/zap"
)

// PlanInput describes the version calculation to perform.
type PlanInput struct {
	// Current is the current version. It must be a valid semantic version.
	Current string
	// Override replaces the computed next version when set.
	Override string
	// Previous is the last published release. Nil scans the entire history.
	Previous *history.PreviousRelease
	// HeadSHA is the end of the commit window. Empty means the repository HEAD.
	HeadSHA string
}

// Plan is the computed outcome of a release before anything is written.
type Plan struct {
	Range    history.Range       `json:"range" yaml:"range"`
	Commits  []commit.Classified `json:"-" yaml:"-"`
	Reason   versioning.Reason   `json:"-" yaml:"-"`
	Info     versioning.Info     `json:"version" yaml:"version"`
	Sections []changelog.Section `json:"-" yaml:"-"`
}

// Plan resolves the commit window, classifies the commits and computes the
// next version and changelog sections.
func (r *Releaser) Plan(ctx context.Context, in PlanInput) (*Plan, error) {
	if _, err := versioning.ParseField(in.Current, "current"); err != nil {
		return nil, err
	}

	head := in.HeadSHA
	if head == "" {
		var err error
		if head, err = r.resolveHead(ctx); err != nil {
			return nil, fmt.Errorf("reading head commit: %w", err)
		}
	}

	var repo history.GitQuery = r.deps.Git
	if r.deps.Progress != nil {
		repo = r.deps.Progress.WrapFetches(repo)
	}
	resolver := history.NewResolver(repo, r.logger)

	rng, err := resolver.ResolveRange(ctx, in.Previous, head)
	if err != nil {
		return nil, fmt.Errorf("resolving git history range: %w", err)
	}

	raw, err := resolver.Commits(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("reading git history: %w", err)
	}
	commits := commit.ClassifyAll(raw)
	r.logger.Debug("classified commits",
		zap.String("range", rng.Spec()), zap.Int("count", len(commits)))

	inc, reason := versioning.ResolveWithReason(commits, r.Config.MajorTypes, r.Config.MinorTypes)
	if reason.Commit != nil && in.Override == "" {
		r.logger.Debug("increment decided by commit",
			zap.String("increment", inc.String()),
			zap.String("sha", reason.Commit.Commit.ShortSHA()),
			zap.String("subject", reason.Commit.Commit.Subject),
			zap.Bool("breaking", reason.Breaking),
			zap.Bool("major_type", reason.MajorType))
	}

	info, err := versioning.Compute(in.Current, in.Override, inc)
	if err != nil {
		return nil, fmt.Errorf("computing next version: %w", err)
	}

	return &Plan{
		Range:    rng,
		Commits:  commits,
		Reason:   reason,
		Info:     info,
		Sections: changelog.Build(commits, r.Config.Titles(), r.Config.MajorTypes),
	}, nil
}

// Changelog renders the plan's sections as a markdown release body.
func (r *Releaser) Changelog(p *Plan) (string, error) {
	return changelog.RenderMarkdownString(p.Sections, changelog.RenderOptions{CommitURL: r.commitURL})
}
