// Package npmrc renders and writes the .npmrc used to authenticate npm.
package npmrc

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileMode keeps the token readable by the owner only.
const FileMode os.FileMode = 0o600

// Contents returns an .npmrc that points npm at registryURL and
// authenticates with token.
func Contents(registryURL, token string) (string, error) {
	u, err := url.Parse(registryURL)
	if err != nil {
		return "", fmt.Errorf("parsing registry url %q: %w", registryURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("registry url %q has no host", registryURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}

	lines := []string{
		fmt.Sprintf("//%s/:_authToken=%s", u.Host, token),
		"registry=" + u.String(),
		fmt.Sprintf("strict-ssl=%t", strings.HasPrefix(u.Scheme, "https")),
	}
	return strings.Join(lines, "\n"), nil
}

// Write stores contents at path with FileMode, creating parent directories.
func Write(path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating npmrc directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(contents), FileMode); err != nil {
		return fmt.Errorf("writing npmrc: %w", err)
	}
	if err := os.Chmod(path, FileMode); err != nil {
		return fmt.Errorf("restricting npmrc permissions: %w", err)
	}
	return nil
}

// Redact hides auth tokens so contents can be logged.
func Redact(contents string) string {
	lines := strings.Split(contents, "\n")
	for i, line := range lines {
		if key, _, ok := strings.Cut(line, "_authToken="); ok {
			lines[i] = key + "_authToken=***"
		}
	}
	return strings.Join(lines, "\n")
}
