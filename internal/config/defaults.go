package config

// GetDefaultConfigTemplate returns a fully commented project config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# easy-npm-publish configuration
# Values set here are overridden by EASY_NPM_PUBLISH_* variables and action inputs.

# Registry settings
registry_url: registry.npmjs.org        # https:// is added when no scheme is given
# registry_token: ""                    # Prefer EASY_NPM_PUBLISH_REGISTRY_TOKEN
npmrc_path: ""                          # Default: $HOME/.npmrc
npmrc_content: ""                       # Replaces the generated .npmrc when set
private: false                          # Publish with --access=restricted

# Versioning
major_types: []                         # Commit types that force a major release
minor_types:                            # Commit types that force a minor release
  - feat
version_override: ""                    # Publish exactly this version

# Package layout
package_directory: .                    # Directory containing the package.json to publish
scripts_package_directory: ""           # Directory whose publish script is run (default: package_directory)

# Git tagging
disable_git_tagging: false              # Skip tagging; github_token is then optional
git_tag_suffix: ""                      # Appended to every version tag
latest_tag_name: latest                 # Floating tag moved to each release

# GitHub release
enable_github_release: false
get_release_title_from_pr: false        # Use the title of the PR that merged the head commit
release_title: ""                       # Explicit release title

# Changelog section titles, merged onto the built-in titles
changelog_titles: {}

dry_run: false                          # Log actions instead of publishing, tagging and releasing
`
}

// GetDefaults returns the default configuration values as a map
func GetDefaults() map[string]any {
	return map[string]any{
		"registry_url":              "registry.npmjs.org",
		"registry_token":            "",
		"github_token":              "",
		"major_types":               []string{},
		"minor_types":               []string{"feat"},
		"changelog_titles":          map[string]any{},
		"version_override":          "",
		"dry_run":                   false,
		"private":                   false,
		"disable_git_tagging":       false,
		"enable_github_release":     false,
		"get_release_title_from_pr": false,
		"git_tag_suffix":            "",
		"latest_tag_name":           "latest",
		"release_title":             "",
		"npmrc_content":             "",
		"npmrc_path":                "",
		"package_directory":         ".",
		"scripts_package_directory": "",
	}
}
