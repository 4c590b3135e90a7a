package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"gopkg.in/yaml.v3"
)

// migratedHeader starts every YAML file written by MigrateJSONToYAML.
const migratedHeader = "# easy-npm-publish configuration\n# Migrated from .easy-npm-publish.json\n\n"

// MigrationResult describes the outcome of a migration operation
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Success    bool
	DryRun     bool
	Message    string
	// Skipped lists legacy keys that match no configuration option.
	Skipped []string
}

// MigrateJSONToYAML converts a legacy JSON config file to YAML. Keys written
// as action inputs (registry-token) become config keys (registry_token) and
// are emitted in the order of Configuration's fields. Unknown keys are
// dropped and reported in Skipped.
// An existing YAML file is never overwritten. In dry-run mode nothing is written.
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: jsonPath,
		TargetPath: yamlPath,
		DryRun:     dryRun,
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Message = fmt.Sprintf("No JSON config found at %s", jsonPath)
			return result, nil
		}
		return nil, fmt.Errorf("failed to read JSON config: %w", err)
	}

	legacy, err := kjson.Parser().Unmarshal(jsonData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	if _, err := os.Stat(yamlPath); err == nil {
		result.Message = fmt.Sprintf("YAML config already exists at %s (skipped)", yamlPath)
		return result, nil
	}

	doc, skipped, err := legacyToYAML(legacy)
	if err != nil {
		return nil, err
	}
	result.Skipped = skipped

	if dryRun {
		result.Success = true
		result.Message = withSkipped(fmt.Sprintf("Would migrate %s → %s", jsonPath, yamlPath), skipped)
		return result, nil
	}

	yamlData, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to YAML: %w", err)
	}
	if err := ValidateYAMLSyntaxFromBytes(yamlData, yamlPath); err != nil {
		return nil, fmt.Errorf("converted YAML is invalid: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(yamlPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(yamlPath, append([]byte(migratedHeader), yamlData...), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write YAML config: %w", err)
	}

	result.Success = true
	result.Message = withSkipped(fmt.Sprintf("Migrated %s → %s", jsonPath, yamlPath), skipped)
	return result, nil
}

// legacyToYAML builds an ordered YAML mapping from the legacy keys.
func legacyToYAML(legacy map[string]any) (*yaml.Node, []string, error) {
	values := make(map[string]any, len(legacy))
	var skipped []string
	known := make(map[string]bool)
	for _, key := range configKeys() {
		known[key] = true
	}
	for key, value := range legacy {
		normalized := strings.ReplaceAll(strings.ToLower(key), "-", "_")
		if !known[normalized] {
			skipped = append(skipped, key)
			continue
		}
		values[normalized] = value
	}
	sort.Strings(skipped)

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range configKeys() {
		value, ok := values[key]
		if !ok {
			continue
		}
		var valueNode yaml.Node
		if err := valueNode.Encode(value); err != nil {
			return nil, nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&valueNode,
		)
	}
	return doc, skipped, nil
}

// configKeys lists the config file keys in field order.
func configKeys() []string {
	t := reflect.TypeOf(Configuration{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if key := t.Field(i).Tag.Get("koanf"); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func withSkipped(msg string, skipped []string) string {
	if len(skipped) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (skipped unknown keys: %s)", msg, strings.Join(skipped, ", "))
}

// MigrateProjectConfig migrates the project config in dir from JSON to YAML.
func MigrateProjectConfig(dir string, dryRun bool) (*MigrationResult, error) {
	return MigrateJSONToYAML(LegacyProjectConfigPath(dir), ProjectConfigPath(dir), dryRun)
}

// RemoveLegacyConfig renames a migrated legacy JSON config to <name>.bak.
// A missing file is not an error.
func RemoveLegacyConfig(jsonPath string, dryRun bool) error {
	if dryRun {
		return nil
	}
	if _, err := os.Stat(jsonPath); os.IsNotExist(err) {
		return nil
	}
	if err := os.Rename(jsonPath, jsonPath+".bak"); err != nil {
		return fmt.Errorf("failed to backup legacy config: %w", err)
	}
	return nil
}
