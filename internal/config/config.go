// Package config provides layered configuration for easy-npm-publish using koanf.
// Configuration is loaded with priority: GitHub Action inputs (INPUT_*) >
// environment variables (EASY_NPM_PUBLISH_*) > project config (.easy-npm-publish.yml)
// > defaults. The legacy JSON project config is still read, with a deprecation warning.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glitch452/easy-npm-publish/internal/changelog"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// Environment variable prefixes, lowest priority first.
const (
	EnvPrefix   = "EASY_NPM_PUBLISH_"
	InputPrefix = "INPUT_"
)

// Configuration is the resolved set of release pipeline inputs.
type Configuration struct {
	RegistryToken string `koanf:"registry_token" validate:"required"`
	RegistryURL   string `koanf:"registry_url" validate:"required,url"`
	GitHubToken   string `koanf:"github_token"`

	MajorTypes      []string          `koanf:"major_types"`
	MinorTypes      []string          `koanf:"minor_types"`
	ChangelogTitles map[string]string `koanf:"changelog_titles"`
	VersionOverride string            `koanf:"version_override"`

	DryRun                bool `koanf:"dry_run"`
	Private               bool `koanf:"private"`
	DisableGitTagging     bool `koanf:"disable_git_tagging"`
	EnableGitHubRelease   bool `koanf:"enable_github_release"`
	GetReleaseTitleFromPR bool `koanf:"get_release_title_from_pr"`

	GitTagSuffix  string `koanf:"git_tag_suffix"`
	LatestTagName string `koanf:"latest_tag_name" validate:"required"`
	ReleaseTitle  string `koanf:"release_title"`

	NpmrcContent string `koanf:"npmrc_content"`
	NpmrcPath    string `koanf:"npmrc_path"`

	PackageDirectory        string `koanf:"package_directory" validate:"required"`
	ScriptsPackageDirectory string `koanf:"scripts_package_directory"`
}

// EnableGitTagging reports whether release tags are applied and pushed.
func (c *Configuration) EnableGitTagging() bool {
	return !c.DisableGitTagging
}

// Titles returns the changelog title map with configured overrides applied.
func (c *Configuration) Titles() changelog.TitleMap {
	return changelog.NewTitleMap(c.ChangelogTitles)
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// Dir is the project directory searched for config files (default: current directory).
	Dir string
	// ConfigPath overrides the project config path.
	ConfigPath string
	// Logger receives deprecation warnings (default: no-op).
	Logger *zap.Logger
	// SkipCredentials relaxes the registry and GitHub token requirements for
	// commands that only read the repository.
	SkipCredentials bool
}

// Load loads configuration from the project directory and the environment.
func Load(dir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{Dir: dir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	loadDefaults(k)

	if err := loadProjectConfig(k, opts, logger); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k, configSourceName(opts), !opts.SkipCredentials)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadProjectConfig loads the project config (YAML preferred, legacy JSON supported).
// Warns if both exist (YAML used, JSON ignored) or if only legacy JSON exists.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, logger *zap.Logger) error {
	yamlPath := ProjectConfigPath(opts.Dir)
	if opts.ConfigPath != "" {
		yamlPath = opts.ConfigPath
	}
	legacyPath := LegacyProjectConfigPath(opts.Dir)

	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		if legacyExists {
			logger.Warn("legacy JSON config ignored",
				zap.String("legacy_path", legacyPath), zap.String("path", yamlPath))
		}
	case legacyExists:
		if err := k.Load(file.Provider(legacyPath), kjson.Parser()); err != nil {
			return fmt.Errorf("failed to load legacy project config %s: %w", legacyPath, err)
		}
		logger.Warn("using deprecated JSON config, run 'easy-npm-publish config migrate' to convert it to YAML",
			zap.String("path", legacyPath))
	case opts.ConfigPath != "":
		return &ValidationError{FilePath: opts.ConfigPath, Message: "config file not found"}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides. Action inputs
// are loaded last so they take priority over EASY_NPM_PUBLISH_* variables.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	for _, prefix := range []string{EnvPrefix, InputPrefix} {
		if err := k.Load(env.ProviderWithValue(prefix, ".", envTransform(prefix)), nil); err != nil {
			return fmt.Errorf("failed to load environment config %s*: %w", prefix, err)
		}
	}
	return nil
}

// envTransform converts environment variable names to config keys and
// splits list values. Empty values are skipped so lower layers survive.
// Example: INPUT_MAJOR-TYPES=perf,revert -> major_types: [perf revert]
func envTransform(prefix string) func(key, value string) (string, any) {
	return func(key, value string) (string, any) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}

		name := strings.ToLower(strings.TrimPrefix(key, prefix))
		name = strings.ReplaceAll(name, "-", "_")

		switch name {
		case "major_types", "minor_types":
			return name, splitList(value)
		default:
			return name, value
		}
	}
}

// splitList splits a comma separated list, dropping blank items.
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// finalizeConfig unmarshals, normalizes and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf, source string, requireCredentials bool) (*Configuration, error) {
	if err := decodeChangelogTitles(k, source); err != nil {
		return nil, err
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.RegistryURL = NormalizeRegistryURL(cfg.RegistryURL)
	if cfg.ScriptsPackageDirectory == "" {
		cfg.ScriptsPackageDirectory = cfg.PackageDirectory
	}
	if cfg.NpmrcPath == "" {
		cfg.NpmrcPath = DefaultNpmrcPath()
	}
	cfg.NpmrcPath = expandHomePath(cfg.NpmrcPath)

	validate := ValidateConfigValues
	if !requireCredentials {
		validate = validateWithoutCredentials
	}
	if err := validate(&cfg, source); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// decodeChangelogTitles replaces a JSON string value (from the environment)
// with the decoded map.
func decodeChangelogTitles(k *koanf.Koanf, source string) error {
	raw, ok := k.Get("changelog_titles").(string)
	if !ok {
		return nil
	}

	titles := map[string]string{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &titles); err != nil {
			return &ValidationError{
				FilePath: source,
				Field:    "changelog_titles",
				Message:  fmt.Sprintf("must be a JSON object of strings: %v", err),
			}
		}
	}

	k.Delete("changelog_titles")
	k.Set("changelog_titles", titles)
	return nil
}

// NormalizeRegistryURL adds the https scheme to a bare registry host.
func NormalizeRegistryURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "http") {
		return raw
	}
	return "https://" + raw
}

// configSourceName names the configuration for error messages.
func configSourceName(opts LoadOptions) string {
	if opts.ConfigPath != "" {
		return opts.ConfigPath
	}
	return "config"
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
