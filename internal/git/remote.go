package git

import (
	"context"
	"net/url"
	"strings"
)

// GitHubRepo identifies a repository hosted on GitHub or GitHub Enterprise.
type GitHubRepo struct {
	Host  string
	Owner string
	Name  string
}

// CommitURL returns the base URL that a commit SHA is appended to.
func (g GitHubRepo) CommitURL() string {
	return "https://" + g.Host + "/" + g.Owner + "/" + g.Name + "/commit/"
}

// ParseRemoteURL extracts the host, owner and repository name from a remote
// URL. It accepts SCP-style, ssh:// and http(s):// remotes.
func ParseRemoteURL(remote string) (GitHubRepo, bool) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return GitHubRepo{}, false
	}

	var host, path string
	if strings.HasPrefix(remote, "git@") && !strings.Contains(remote, "://") {
		rest := strings.TrimPrefix(remote, "git@")
		var ok bool
		host, path, ok = strings.Cut(rest, ":")
		if !ok {
			return GitHubRepo{}, false
		}
	} else {
		u, err := url.Parse(remote)
		if err != nil || u.Host == "" {
			return GitHubRepo{}, false
		}
		host = u.Hostname()
		path = u.Path
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	owner, name, ok := strings.Cut(path, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return GitHubRepo{}, false
	}
	return GitHubRepo{Host: host, Owner: owner, Name: name}, true
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// GitHubRepo returns the GitHub coordinates of the configured remote.
// The boolean is false when the remote is missing or not a recognizable URL.
func (r *Repo) GitHubRepo(ctx context.Context) (GitHubRepo, bool) {
	remote, err := r.RemoteURL(ctx)
	if err != nil {
		logDebug("[git] no remote URL: %v", err)
		return GitHubRepo{}, false
	}

	repo, ok := ParseRemoteURL(remote)
	logDebug("[git] remote %s (ssh: %v) parsed: %v", remote, isSSHURL(remote), ok)
	return repo, ok
}
