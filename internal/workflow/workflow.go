// Package workflow orchestrates a release: it resolves the commit window since
// the last published version, computes the next version and changelog, then
// publishes the package, applies tags and creates the GitHub release.
// Related: internal/history/resolver.go, internal/versioning/calculator.go, internal/changelog/builder.go
// Tags: workflow, orchestrator, release, publish
package workflow

import (
	"context"
	"path/filepath"

	"github.com/glitch452/easy-npm-publish/internal/config"
	"github.com/glitch452/easy-npm-publish/internal/git"
	"github.com/glitch452/easy-npm-publish/internal/history"
	"github.com/glitch452/easy-npm-publish/internal/output"
	"github.com/glitch452/easy-npm-publish/internal/publish"
	"github.com/glitch452/easy-npm-publish/internal/registry"
	"github.com/glitch452/easy-npm-publish/internal/release"
	"go.uber.org/zap"
)

// Repository is the git surface used by a release.
type Repository interface {
	history.GitQuery
	HeadSHA(ctx context.Context) (string, error)
	AddTags(ctx context.Context, target string, names []string) error
	PushTags(ctx context.Context) error
	Restore(ctx context.Context, paths ...string) error
}

var _ Repository = (*git.Repo)(nil)

// Registry looks up the latest published version of a package.
type Registry interface {
	Latest(ctx context.Context, name string) (*registry.VersionDetails, error)
}

// Publisher publishes the package.
type Publisher interface {
	Publish(ctx context.Context, opts publish.Options) (publish.Command, error)
}

// ReleaseService creates GitHub releases.
type ReleaseService interface {
	Title(ctx context.Context, opts release.TitleOptions) (string, error)
	Create(ctx context.Context, r release.Release) (release.Created, error)
}

// OutputWriter records step outputs for downstream steps.
type OutputWriter interface {
	Write(pairs []output.Pair) error
}

var (
	_ Registry       = (*registry.Client)(nil)
	_ Publisher      = (*publish.Publisher)(nil)
	_ ReleaseService = (*release.Client)(nil)
	_ OutputWriter   = (*output.ActionWriter)(nil)
)

// Dependencies are the collaborators of a Releaser. Only Git is needed for
// planning; Run needs the rest, except Releases when GitHub releases are
// disabled.
type Dependencies struct {
	Git       Repository
	Registry  Registry
	Publisher Publisher
	Releases  ReleaseService
	Outputs   OutputWriter
	// Progress displays step headers and spinners. Nil disables display.
	Progress *ProgressController
}

// Options holds per-run settings that do not come from configuration.
type Options struct {
	// Dir is the workspace root that package directories are relative to.
	Dir string
	// HeadSHA is the commit being released. Empty means the repository HEAD.
	HeadSHA string
	// CommitURL is the base URL for changelog commit links. Empty disables links.
	CommitURL string
	// Verbose passes --verbose to npm publish.
	Verbose bool
	Logger  *zap.Logger
}

// Releaser runs the release pipeline.
type Releaser struct {
	Config *config.Configuration

	deps      Dependencies
	dir       string
	headSHA   string
	commitURL string
	verbose   bool
	logger    *zap.Logger
}

// New creates a Releaser.
func New(cfg *config.Configuration, deps Dependencies, opts Options) *Releaser {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Releaser{
		Config:    cfg,
		deps:      deps,
		dir:       opts.Dir,
		headSHA:   opts.HeadSHA,
		commitURL: opts.CommitURL,
		verbose:   opts.Verbose,
		logger:    logger,
	}
}

// resolveHead returns the configured head SHA, reading HEAD when unset.
func (r *Releaser) resolveHead(ctx context.Context) (string, error) {
	if r.headSHA != "" {
		return r.headSHA, nil
	}
	return r.deps.Git.HeadSHA(ctx)
}

// path resolves a configured directory against the workspace root.
func (r *Releaser) path(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(r.dir, dir)
}
