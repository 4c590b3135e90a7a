// Package build provides version and build information for easy-npm-publish.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import "fmt"

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// UserAgent identifies the tool in registry and GitHub API requests.
func UserAgent() string {
	return fmt.Sprintf("easy-npm-publish/%s", Version)
}
