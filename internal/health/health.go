// Package health provides prerequisite checks for easy-npm-publish. It validates
// that the external tools the publish pipeline shells out to are available and
// that the workspace holds a repository and a package manifest, returning a
// structured report used by the 'easy-npm-publish doctor' command.
package health

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/glitch452/easy-npm-publish/internal/config"
	"github.com/glitch452/easy-npm-publish/internal/git"
	"github.com/glitch452/easy-npm-publish/internal/manifest"
	"github.com/glitch452/easy-npm-publish/internal/versioning"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Warning marks a failed check that does not block publishing.
	Warning bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options configures RunHealthChecks.
type Options struct {
	// Dir is the repository directory.
	Dir string
	// Config is the loaded configuration. Nil skips the configuration checks.
	Config *config.Configuration
	// LookPath finds executables. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

func (o Options) lookPath(file string) (string, error) {
	if o.LookPath != nil {
		return o.LookPath(file)
	}
	return exec.LookPath(file)
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(opts Options) *HealthReport {
	checks := []CheckResult{
		CheckBinary(opts, "git", "fetching history and pushing tags"),
		CheckBinary(opts, "npm", "publishing the package"),
		CheckRepository(opts.Dir),
	}
	if opts.Config != nil {
		checks = append(checks,
			CheckManifest(packageDir(opts)),
			CheckCredentials(opts.Config),
		)
	}

	report := &HealthReport{Checks: checks, Passed: true}
	for _, c := range checks {
		if !c.Passed && !c.Warning {
			report.Passed = false
		}
	}
	return report
}

func packageDir(opts Options) string {
	dir := opts.Config.PackageDirectory
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(opts.Dir, dir)
}

// CheckBinary checks that an executable is on PATH.
func CheckBinary(opts Options, name, purpose string) CheckResult {
	path, err := opts.lookPath(name)
	if err != nil {
		return CheckResult{
			Name:    name,
			Passed:  false,
			Message: fmt.Sprintf("%s not found in PATH (needed for %s)", name, purpose),
		}
	}
	return CheckResult{
		Name:    name,
		Passed:  true,
		Message: fmt.Sprintf("found at %s", path),
	}
}

// CheckRepository checks that dir is inside a git repository.
func CheckRepository(dir string) CheckResult {
	repo, err := git.Open(dir)
	if err != nil {
		msg := err.Error()
		if git.IsNotRepository(err) {
			msg = "not a git repository"
		}
		return CheckResult{Name: "repository", Passed: false, Message: msg}
	}
	return CheckResult{Name: "repository", Passed: true, Message: repo.Dir}
}

// CheckManifest checks that dir holds a readable package.json with a non-empty name.
func CheckManifest(dir string) CheckResult {
	path := manifest.PathIn(dir)
	pkg, err := manifest.Read(path)
	if err != nil {
		return CheckResult{Name: manifest.FileName, Passed: false, Message: err.Error()}
	}
	if pkg.Name == "" {
		return CheckResult{Name: manifest.FileName, Passed: false, Message: fmt.Sprintf("%s has no name", path)}
	}

	msg := fmt.Sprintf("%s@%s", pkg.Name, pkg.Version)
	if _, err := versioning.Parse(pkg.Version); err != nil {
		return CheckResult{
			Name:    manifest.FileName,
			Passed:  false,
			Warning: true,
			Message: msg + " (version is not semver, 0.0.0 is used when the package is unpublished)",
		}
	}
	return CheckResult{Name: manifest.FileName, Passed: true, Message: msg}
}

// CheckCredentials checks that the tokens the enabled features need are set.
func CheckCredentials(cfg *config.Configuration) CheckResult {
	var missing []string
	if cfg.RegistryToken == "" {
		missing = append(missing, "registry_token")
	}
	if cfg.GitHubToken == "" && (cfg.EnableGitTagging() || cfg.EnableGitHubRelease) {
		missing = append(missing, "github_token")
	}
	if len(missing) > 0 {
		return CheckResult{
			Name:    "credentials",
			Passed:  false,
			Message: "missing " + strings.Join(missing, ", "),
		}
	}
	return CheckResult{Name: "credentials", Passed: true, Message: "configured"}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		switch {
		case check.Passed:
		case check.Warning:
			mark = "⚠"
		default:
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return b.String()
}
