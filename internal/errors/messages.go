package errors

import "fmt"

// Common error messages for the easy-npm-publish CLI.
// These templates ensure consistent, actionable error messages.

// InvalidConfig wraps a configuration validation failure.
func InvalidConfig(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Check .easy-npm-publish.yml and the EASY_NPM_PUBLISH_* / INPUT_* environment variables",
		"Print the resolved configuration with: easy-npm-publish config show",
	)
}

// ConfigFileNotFound creates an error for a missing config file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Run 'easy-npm-publish config init' to create a default configuration",
		"Or omit --config to use environment variables only",
	)
}

// MissingRegistryToken creates an error when no registry token is configured.
func MissingRegistryToken() *CLIError {
	return NewConfigError(
		"registry token is required",
		"Set the registry-token input of the action",
		"Or export EASY_NPM_PUBLISH_REGISTRY_TOKEN",
	)
}

// MissingGitHubToken creates an error when tagging or releases need a token.
func MissingGitHubToken() *CLIError {
	return NewConfigError(
		"github token is required for git tagging and GitHub releases",
		"Set the github-token input to ${{ secrets.GITHUB_TOKEN }}",
		"Or disable tagging with disable-git-tagging: true",
	)
}

// InvalidVersion creates an error for a version string that is not semver.
func InvalidVersion(field, input string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid %s version: %q", field, input),
		"Versions must follow semantic versioning, e.g. 1.2.3 or 2.0.0-beta.1",
	)
}

// TagMismatch creates an error when a release tag points at the wrong commit.
func TagMismatch(tag, expected, actual string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("tag %s points to %s, but the published release was built from %s", tag, actual, expected),
		"Move the tag to the released commit: git tag --force "+tag+" "+expected,
		"Or publish a new version with version-override",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'easy-npm-publish <command> --help' to see valid options",
	)
}

// InvalidFormat creates an error for an unsupported --format value.
func InvalidFormat(format string, valid ...string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unsupported format: %s", format),
		fmt.Sprintf("Valid formats: %v", valid),
	)
}

// ManifestNotFound creates an error for a missing package.json.
func ManifestNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("package manifest not found: %s", path),
		"Set package-directory to the folder containing package.json",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository() *CLIError {
	return NewPrerequisiteError(
		"not a git repository",
		"Check out the repository first, e.g. with actions/checkout",
		"Or pass --dir to point at an existing repository",
	)
}

// GitCommandFailed wraps a failing git invocation.
func GitCommandFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"git command failed",
		"Re-run with --debug (or RUNNER_DEBUG=1) to see every git call",
		"Make sure the checkout has push access for tagging",
	)
}

// RegistryRequestFailed wraps a failing registry request.
func RegistryRequestFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"registry request failed",
		"Check registry-url and registry-token",
	)
}

// PublishFailed wraps a failing npm publish.
func PublishFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"publishing the package failed",
		"Run the command locally with --dry-run to inspect the publish plan",
	)
}
