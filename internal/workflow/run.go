package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/glitch452/easy-npm-publish/internal/history"
	"github.com/glitch452/easy-npm-publish/internal/manifest"
	"github.com/glitch452/easy-npm-publish/internal/npmrc"
	"github.com/glitch452/easy-npm-publish/internal/output"
	"github.com/glitch452/easy-npm-publish/internal/publish"
	"github.com/glitch452/easy-npm-publish/internal/registry"
	"github.com/glitch452/easy-npm-publish/internal/release"
	"github.com/glitch452/easy-npm-publish/internal/versioning"
	"go.uber.org/zap"
)

// Step names in execution order.
const (
	StepNpmrc    = "Writing .npmrc file"
	StepManifest = "Reading package manifest"
	StepRegistry = "Reading latest release from the registry"
	StepPlan     = "Calculating the next version"
	StepUpdate   = "Updating package manifest"
	StepPublish  = "Publishing package"
	StepRestore  = "Restoring workspace"
	StepTags     = "Applying git tags"
	StepRelease  = "Creating GitHub release"
	StepOutputs  = "Setting outputs"
)

// TotalSteps is the number of steps Run reports.
const TotalSteps = 10

// ErrReleasesNotConfigured is returned when GitHub releases are enabled but
// no release service was provided.
var ErrReleasesNotConfigured = errors.New("GitHub releases are enabled but no release client is configured")

// Result summarizes a run.
type Result struct {
	// AlreadyPublished is set when the head commit is the latest release; nothing else ran.
	AlreadyPublished bool
	// NothingToPublish is set when the next version equals the published
	// version; the plan ran but nothing was written, published, tagged or released.
	NothingToPublish bool
	PackageName      string
	Plan             *Plan
	Command          publish.Command
	Tags             []string
	Release          *release.Created
	Outputs          []output.Pair
}

// Run executes the full release pipeline. In dry-run mode nothing is
// written, published, tagged or released; each such step is logged instead.
func (r *Releaser) Run(ctx context.Context) (*Result, error) {
	cfg := r.Config
	progress := r.deps.Progress
	result := &Result{}

	progress.StartStep(StepNpmrc)
	if err := r.writeNpmrc(); err != nil {
		return nil, err
	}

	progress.StartStep(StepManifest)
	manifestPath := manifest.PathIn(r.path(cfg.PackageDirectory))
	r.logger.Info("reading package file", zap.String("path", manifestPath))
	pkg, err := manifest.Read(manifestPath)
	if err != nil {
		return nil, err
	}
	result.PackageName = pkg.Name

	progress.StartStep(StepRegistry)
	r.logger.Info("reading latest package details from registry",
		zap.String("registry", cfg.RegistryURL), zap.String("package", pkg.Name))
	latest, err := r.deps.Registry.Latest(ctx, pkg.Name)
	if err != nil {
		return nil, fmt.Errorf("reading latest package details: %w", err)
	}

	head, err := r.resolveHead(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading head commit: %w", err)
	}

	if latest != nil && latest.GitHead == head {
		r.logger.Info("GitHub SHA matches latest release SHA, exiting.", zap.String("sha", head))
		result.AlreadyPublished = true
		return result, nil
	}

	in, err := r.planInput(latest, pkg, head)
	if err != nil {
		return nil, err
	}

	progress.StartStep(StepPlan)
	plan, err := r.Plan(ctx, in)
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	info := plan.Info
	r.logger.Info("version calculated",
		zap.Stringer("current", info.Current),
		zap.Stringer("next", info.Next),
		zap.Stringer("increment", info.IncrementType),
		zap.Stringer("outcome", plan.Range.Outcome),
		zap.Int("commits", len(plan.Commits)))
	progress.CompleteStep("%s -> %s", info.Current, info.Next)

	if latest != nil && !info.Changed() {
		r.logger.Info("the next version matches the published version, nothing to publish",
			zap.Stringer("version", info.Next))
		result.NothingToPublish = true
		return result, nil
	}

	progress.StartStep(StepUpdate)
	if err := r.updateManifest(manifestPath, pkg, info.Next); err != nil {
		return nil, err
	}

	progress.StartStep(StepPublish)
	result.Command, err = r.deps.Publisher.Publish(ctx, publish.Options{
		PackageDir: r.path(cfg.PackageDirectory),
		ScriptsDir: r.path(cfg.ScriptsPackageDirectory),
		Package:    pkg,
		Private:    cfg.Private,
		DryRun:     cfg.DryRun,
		Verbose:    r.verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("publishing package: %w", err)
	}

	progress.StartStep(StepRestore)
	if !cfg.DryRun {
		if err := r.deps.Git.Restore(ctx); err != nil {
			return nil, fmt.Errorf("restoring workspace: %w", err)
		}
	}

	newTag := TagName(info.Next.String(), cfg.GitTagSuffix)

	progress.StartStep(StepTags)
	if cfg.EnableGitTagging() {
		result.Tags = ReleaseTags(cfg.LatestTagName, info.Next, cfg.GitTagSuffix)
		if err := r.applyTags(ctx, head, result.Tags); err != nil {
			return nil, err
		}
	}

	progress.StartStep(StepRelease)
	if cfg.EnableGitHubRelease {
		created, err := r.createRelease(ctx, plan, newTag, head)
		if err != nil {
			return nil, err
		}
		result.Release = created
	}

	progress.StartStep(StepOutputs)
	result.Outputs = output.VersionOutputs(info)
	if r.deps.Outputs != nil {
		if err := r.deps.Outputs.Write(result.Outputs); err != nil {
			return nil, fmt.Errorf("setting outputs: %w", err)
		}
	}

	return result, nil
}

// writeNpmrc writes the configured or generated registry credentials file.
func (r *Releaser) writeNpmrc() error {
	cfg := r.Config
	contents := cfg.NpmrcContent
	if contents == "" {
		var err error
		if contents, err = npmrc.Contents(cfg.RegistryURL, cfg.RegistryToken); err != nil {
			return fmt.Errorf("creating .npmrc contents: %w", err)
		}
	}
	r.logger.Debug("writing .npmrc file",
		zap.String("path", cfg.NpmrcPath), zap.String("contents", npmrc.Redact(contents)))
	return npmrc.Write(cfg.NpmrcPath, contents)
}

// planInput derives the current version and previous release. The registry
// wins; otherwise the manifest version is used, and 0.0.0 as a last resort.
func (r *Releaser) planInput(latest *registry.VersionDetails, pkg *manifest.Package, head string) (PlanInput, error) {
	in := PlanInput{Override: r.Config.VersionOverride, HeadSHA: head}

	if latest != nil {
		current, err := versioning.ParseField(latest.Version, "registry")
		if err != nil {
			return PlanInput{}, err
		}
		in.Current = current.String()
		in.Previous = &history.PreviousRelease{
			TagName: TagName(in.Current, r.Config.GitTagSuffix),
			SHA:     latest.GitHead,
		}
		return in, nil
	}

	if v, err := versioning.Parse(pkg.Version); err == nil {
		in.Current = v.String()
		r.logger.Warn("the package was not found in the registry, the version from the package json will be used as the current version",
			zap.String("version", in.Current))
		return in, nil
	}

	in.Current = "0.0.0"
	r.logger.Warn("the package was not found in the registry, the version 0.0.0 will be used as the current version")
	return in, nil
}

// updateManifest writes the next version into package.json when it differs.
func (r *Releaser) updateManifest(path string, pkg *manifest.Package, next versioning.SemVer) error {
	if pkg.Version == next.String() {
		return nil
	}
	pkg.SetVersion(next.String())

	if r.Config.DryRun {
		r.logger.Info("DRY RUN: Updating package json with next version", zap.String("path", path))
		return nil
	}
	r.logger.Debug("updating package json with next version", zap.String("path", path))
	if err := manifest.Write(path, pkg); err != nil {
		return fmt.Errorf("updating package manifest: %w", err)
	}
	return nil
}

// applyTags points the release tags at the released commit then pushes them.
func (r *Releaser) applyTags(ctx context.Context, head string, tags []string) error {
	if r.Config.DryRun {
		r.logger.Info("DRY RUN: Git tags to be added/updated",
			zap.Strings("tags", tags), zap.String("sha", head))
		return nil
	}

	r.logger.Debug("git tags to be added/updated", zap.Strings("tags", tags), zap.String("sha", head))
	if err := r.deps.Git.AddTags(ctx, head, tags); err != nil {
		return fmt.Errorf("adding tags: %w", err)
	}
	if err := r.deps.Progress.Spin("Pushing tags", func() error {
		return r.deps.Git.PushTags(ctx)
	}); err != nil {
		return fmt.Errorf("pushing tags: %w", err)
	}
	return nil
}

// createRelease creates the GitHub release for newTag with the changelog as body.
func (r *Releaser) createRelease(ctx context.Context, plan *Plan, newTag, head string) (*release.Created, error) {
	if r.deps.Releases == nil {
		return nil, ErrReleasesNotConfigured
	}

	title, err := r.deps.Releases.Title(ctx, release.TitleOptions{
		Explicit: r.Config.ReleaseTitle,
		FromPR:   r.Config.GetReleaseTitleFromPR,
		SHA:      head,
		Fallback: newTag,
	})
	if err != nil {
		return nil, fmt.Errorf("selecting release title: %w", err)
	}

	body, err := r.Changelog(plan)
	if err != nil {
		return nil, fmt.Errorf("rendering changelog: %w", err)
	}

	rel := release.Release{Tag: newTag, Title: title, Body: body}
	if r.Config.DryRun {
		r.logger.Info("DRY RUN: GitHub release to be created",
			zap.String("tag", rel.Tag), zap.String("title", rel.Title))
		r.logger.Debug("release body", zap.String("body", rel.Body))
		return nil, nil
	}

	created, err := r.deps.Releases.Create(ctx, rel)
	if err != nil {
		return nil, fmt.Errorf("creating GitHub release: %w", err)
	}
	r.logger.Info("created GitHub release", zap.String("url", created.HTMLURL))
	return &created, nil
}
