// Package release creates GitHub releases for published versions.
package release

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/glitch452/easy-npm-publish/internal/build"
	"github.com/google/go-github/v52/github"
	"go.uber.org/zap"
)

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

// ParseRepo parses an "owner/name" string such as GITHUB_REPOSITORY.
func ParseRepo(s string) (Repo, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, fmt.Errorf("invalid repository %q, expected owner/name", s)
	}
	return Repo{Owner: owner, Name: name}, nil
}

// Release is the content of a release to create.
type Release struct {
	Tag   string
	Title string
	Body  string
}

// Created describes a created release.
type Created struct {
	ID      int64
	HTMLURL string
}

// TitleOptions selects the release title.
type TitleOptions struct {
	// Explicit wins when set.
	Explicit string
	// FromPR uses the title of the first pull request containing SHA.
	FromPR bool
	SHA    string
	// Fallback is used when no other title applies, normally the new tag.
	Fallback string
}

// Client talks to the GitHub API.
type Client struct {
	gh     *github.Client
	repo   Repo
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at a different API root, such as
// GITHUB_API_URL on GitHub Enterprise.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if raw == "" {
			return nil
		}
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing GitHub API url %q: %w", raw, err)
		}
		c.gh.BaseURL = u
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// NewClient creates a token authenticated client for repo.
func NewClient(ctx context.Context, token string, repo Repo, opts ...Option) (*Client, error) {
	c := &Client{
		gh:     github.NewTokenClient(ctx, token),
		repo:   repo,
		logger: zap.NewNop(),
	}
	c.gh.UserAgent = build.UserAgent()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Title returns the release title for opts.
func (c *Client) Title(ctx context.Context, opts TitleOptions) (string, error) {
	if opts.Explicit != "" {
		return opts.Explicit, nil
	}
	if !opts.FromPR {
		return opts.Fallback, nil
	}

	pulls, _, err := c.gh.PullRequests.ListPullRequestsWithCommit(ctx, c.repo.Owner, c.repo.Name, opts.SHA, nil)
	if err != nil {
		return "", fmt.Errorf("listing pull requests for commit %s: %w", opts.SHA, err)
	}
	if len(pulls) == 0 || pulls[0].GetTitle() == "" {
		c.logger.Debug("no pull request title for commit", zap.String("sha", opts.SHA))
		return opts.Fallback, nil
	}
	return pulls[0].GetTitle(), nil
}

// Create publishes a non-draft, non-prerelease release.
func (c *Client) Create(ctx context.Context, r Release) (Created, error) {
	c.logger.Debug("creating GitHub release",
		zap.String("tag", r.Tag), zap.String("title", r.Title), zap.Int("body_bytes", len(r.Body)))

	created, _, err := c.gh.Repositories.CreateRelease(ctx, c.repo.Owner, c.repo.Name, &github.RepositoryRelease{
		TagName:    github.String(r.Tag),
		Name:       github.String(r.Title),
		Body:       github.String(r.Body),
		Draft:      github.Bool(false),
		Prerelease: github.Bool(false),
	})
	if err != nil {
		return Created{}, fmt.Errorf("creating release %s: %w", r.Tag, err)
	}
	return Created{ID: created.GetID(), HTMLURL: created.GetHTMLURL()}, nil
}
