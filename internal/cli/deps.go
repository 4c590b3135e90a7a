package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/glitch452/easy-npm-publish/internal/config"
	"github.com/glitch452/easy-npm-publish/internal/git"
	"github.com/glitch452/easy-npm-publish/internal/output"
	"github.com/glitch452/easy-npm-publish/internal/progress"
	"github.com/glitch452/easy-npm-publish/internal/publish"
	"github.com/glitch452/easy-npm-publish/internal/registry"
	"github.com/glitch452/easy-npm-publish/internal/release"
	"github.com/glitch452/easy-npm-publish/internal/workflow"
	"go.uber.org/zap"
)

// GitHub Actions environment variables read by the CLI.
const (
	envSHA        = "GITHUB_SHA"
	envRepository = "GITHUB_REPOSITORY"
	envServerURL  = "GITHUB_SERVER_URL"
	envAPIURL     = "GITHUB_API_URL"
)

// loadConfig loads configuration for the workspace.
func loadConfig(skipCredentials bool) (*config.Configuration, error) {
	return config.LoadWithOptions(config.LoadOptions{
		Dir:             workspaceDir(),
		ConfigPath:      globals.configPath,
		Logger:          logger,
		SkipCredentials: skipCredentials,
	})
}

// githubRepository resolves the repository releases are created in, from
// GITHUB_REPOSITORY or else the git remote.
func githubRepository(ctx context.Context, repo *git.Repo) (release.Repo, error) {
	if full := os.Getenv(envRepository); full != "" {
		return release.ParseRepo(full)
	}
	gh, ok := repo.GitHubRepo(ctx)
	if !ok {
		return release.Repo{}, fmt.Errorf("cannot determine the GitHub repository: set %s or add a GitHub remote", envRepository)
	}
	return release.Repo{Owner: gh.Owner, Name: gh.Name}, nil
}

// commitURL returns the base URL for changelog commit links, empty when the
// repository is not hosted on a recognizable remote.
func commitURL(ctx context.Context, repo *git.Repo) string {
	if full := os.Getenv(envRepository); full != "" {
		server := os.Getenv(envServerURL)
		if server == "" {
			server = "https://github.com"
		}
		return strings.TrimSuffix(server, "/") + "/" + full + "/commit/"
	}
	if gh, ok := repo.GitHubRepo(ctx); ok {
		return gh.CommitURL()
	}
	return ""
}

// newProgress returns a progress controller on an interactive terminal.
func newProgress(out io.Writer, totalSteps int) *workflow.ProgressController {
	caps := progress.DetectTerminalCapabilities()
	if !caps.IsTTY {
		return nil
	}
	return workflow.NewProgressController(out, caps, totalSteps)
}

// newPlanner builds a releaser that can only plan: no registry, publish or
// release collaborators.
func newPlanner(ctx context.Context, cfg *config.Configuration, repo *git.Repo, errOut io.Writer) *workflow.Releaser {
	return workflow.New(cfg, workflow.Dependencies{
		Git:      repo,
		Progress: newProgress(errOut, 0),
	}, workflow.Options{
		Dir:       workspaceDir(),
		HeadSHA:   os.Getenv(envSHA),
		CommitURL: commitURL(ctx, repo),
		Logger:    logger,
	})
}

// newReleaser wires every collaborator of the publish pipeline.
func newReleaser(ctx context.Context, cfg *config.Configuration, repo *git.Repo, stdout, errOut io.Writer) (*workflow.Releaser, error) {
	reg, err := registry.NewClient(cfg.RegistryURL, cfg.RegistryToken, logger)
	if err != nil {
		return nil, err
	}

	deps := workflow.Dependencies{
		Git:       repo,
		Registry:  reg,
		Publisher: publish.New(publish.ExecRunner{Stdout: errOut, Stderr: errOut}, logger),
		Outputs:   output.NewActionWriter(stdout),
		Progress:  newProgress(errOut, workflow.TotalSteps),
	}

	if cfg.EnableGitHubRelease {
		ghRepo, err := githubRepository(ctx, repo)
		if err != nil {
			return nil, err
		}
		client, err := release.NewClient(ctx, cfg.GitHubToken, ghRepo,
			release.WithBaseURL(os.Getenv(envAPIURL)),
			release.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		deps.Releases = client
	}

	return workflow.New(cfg, deps, workflow.Options{
		Dir:       workspaceDir(),
		HeadSHA:   os.Getenv(envSHA),
		CommitURL: commitURL(ctx, repo),
		Verbose:   debugEnabled(),
		Logger:    logger.With(zap.String("package_dir", cfg.PackageDirectory)),
	}), nil
}
