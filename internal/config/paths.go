package config

import (
	"os"
	"path/filepath"
)

// Project config file names.
const (
	ProjectConfigFile       = ".easy-npm-publish.yml"
	LegacyProjectConfigFile = ".easy-npm-publish.json"
)

// ProjectConfigPath returns the path to the project config file in dir.
// An empty dir means the current directory.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFile)
}

// LegacyProjectConfigPath returns the path to the legacy JSON project config in dir.
func LegacyProjectConfigPath(dir string) string {
	return filepath.Join(dir, LegacyProjectConfigFile)
}

// DefaultNpmrcPath returns the user-level .npmrc path.
// Falls back to $HOME when the home directory cannot be determined.
func DefaultNpmrcPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".npmrc")
}
