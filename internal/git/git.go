// Package git provides the repository operations the release pipeline needs.
// It uses the go-git library for reads (shallow detection, tags, HEAD, remotes)
// and falls back to the git CLI for operations go-git does not support
// (deepening shallow clones, ranged logs, forced tag pushes).
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/glitch452/easy-npm-publish/internal/commit"
	"github.com/glitch452/easy-npm-publish/internal/history"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"golang.org/x/sync/errgroup"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// DefaultRemote is the remote used for fetches, pushes and commit links.
const DefaultRemote = "origin"

// Field and record separators for the log format.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	logFormat = "--format=%H%x1f%an%x1f%s%x1f%b%x1e"
)

var _ history.GitQuery = (*Repo)(nil)

// Repo is a git working copy.
type Repo struct {
	// Dir is the repository root.
	Dir string
	// Remote is the remote name, DefaultRemote when empty.
	Remote string
}

// Open locates the repository containing dir. An empty dir means the
// current working directory.
func Open(dir string) (*Repo, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] repository root: %s", root)
	return &Repo{Dir: root, Remote: DefaultRemote}, nil
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// IsNotRepository reports whether err means no repository was found.
func IsNotRepository(err error) bool {
	return errors.Is(err, git.ErrRepositoryNotExists)
}

func (r *Repo) remote() string {
	if r.Remote == "" {
		return DefaultRemote
	}
	return r.Remote
}

// IsShallow reports whether the clone has a shallow boundary.
func (r *Repo) IsShallow(_ context.Context) (bool, error) {
	repo, err := openRepo(r.Dir)
	if err != nil {
		return false, err
	}

	shallow, err := repo.Storer.Shallow()
	if err != nil {
		return false, fmt.Errorf("reading shallow commits: %w", err)
	}

	logDebug("[git] IsShallow: %v", len(shallow) > 0)
	return len(shallow) > 0, nil
}

// HeadSHA returns the commit HEAD points to.
func (r *Repo) HeadSHA(_ context.Context) (string, error) {
	repo, err := openRepo(r.Dir)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	return head.Hash().String(), nil
}

// ListTags returns the sorted names of all local tags.
func (r *Repo) ListTags(_ context.Context) ([]string, error) {
	repo, err := openRepo(r.Dir)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	slices.Sort(tags)
	logDebug("[git] ListTags: found %d tags", len(tags))
	return tags, nil
}

// ResolveTagSHA returns the commit a tag points to. Annotated tags are peeled.
func (r *Repo) ResolveTagSHA(_ context.Context, tag string) (string, error) {
	repo, err := openRepo(r.Dir)
	if err != nil {
		return "", err
	}

	ref, err := repo.Tag(tag)
	if err != nil {
		return "", fmt.Errorf("looking up tag %q: %w", tag, err)
	}

	obj, err := repo.TagObject(ref.Hash())
	switch {
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return ref.Hash().String(), nil
	case err != nil:
		return "", fmt.Errorf("reading tag object %q: %w", tag, err)
	}

	c, err := obj.Commit()
	if err != nil {
		return "", fmt.Errorf("peeling tag %q: %w", tag, err)
	}
	return c.Hash.String(), nil
}

// RemoteURL returns the first URL of the configured remote.
func (r *Repo) RemoteURL(_ context.Context) (string, error) {
	repo, err := openRepo(r.Dir)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(r.remote())
	if err != nil {
		return "", fmt.Errorf("getting remote %q: %w", r.remote(), err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", r.remote())
	}
	return urls[0], nil
}

// FetchTags fetches all tags from the remote.
func (r *Repo) FetchTags(ctx context.Context) error {
	_, err := r.run(ctx, "fetch", "--tags", r.remote())
	return err
}

// FetchShallowExclude deepens a shallow clone up to, but excluding, ref.
func (r *Repo) FetchShallowExclude(ctx context.Context, ref string) error {
	_, err := r.run(ctx, "fetch", "--shallow-exclude="+ref, r.remote())
	return err
}

// FetchDeepen deepens a shallow clone by n commits.
func (r *Repo) FetchDeepen(ctx context.Context, n int) error {
	_, err := r.run(ctx, "fetch", fmt.Sprintf("--deepen=%d", n), r.remote())
	return err
}

// FetchUnshallow converts a shallow clone into a complete one.
func (r *Repo) FetchUnshallow(ctx context.Context) error {
	_, err := r.run(ctx, "fetch", "--unshallow", r.remote())
	return err
}

// Log returns the commits of the range, newest first.
func (r *Repo) Log(ctx context.Context, rng history.Range) ([]commit.Commit, error) {
	out, err := r.run(ctx, "log", logFormat, rng.Spec())
	if err != nil {
		return nil, err
	}

	commits := parseLog(out)
	logDebug("[git] Log %s: %d commits", rng.Spec(), len(commits))
	return commits, nil
}

// parseLog splits log output produced with logFormat into commits.
func parseLog(out string) []commit.Commit {
	var commits []commit.Commit
	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimLeft(record, "\r\n")
		if record == "" {
			continue
		}

		fields := strings.SplitN(record, fieldSep, 4)
		if len(fields) < 3 {
			continue
		}

		c := commit.Commit{
			SHA:        fields[0],
			AuthorName: fields[1],
			Subject:    fields[2],
		}
		if len(fields) == 4 {
			c.Body = strings.TrimSpace(fields[3])
		}
		commits = append(commits, c)
	}
	return commits
}

// AddTag creates or moves a lightweight tag to target, HEAD when target is empty.
func (r *Repo) AddTag(ctx context.Context, name, target string) error {
	args := []string{"tag", "--force", name}
	if target != "" {
		args = append(args, target)
	}
	_, err := r.run(ctx, args...)
	return err
}

// AddTags applies all tags to target concurrently. It returns the first
// failure after every tag operation has finished.
func (r *Repo) AddTags(ctx context.Context, target string, names []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			if err := r.AddTag(ctx, name, target); err != nil {
				return fmt.Errorf("adding tag %q: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// PushTags force pushes all local tags so moved floating tags are updated.
func (r *Repo) PushTags(ctx context.Context) error {
	_, err := r.run(ctx, "push", r.remote(), "--tags", "--force")
	return err
}

// Restore discards working tree changes to the given paths, the whole tree
// when none are given.
func (r *Repo) Restore(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	_, err := r.run(ctx, append([]string{"restore", "--"}, paths...)...)
	return err
}

// CommandError is returned when a git CLI invocation fails.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return msg + ": " + e.Stderr
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// run executes a git command in the repository and returns its stdout.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	logDebug("[git] running: git %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.String(), nil
}
