// Package config tests legacy JSON to YAML migration.
// Related: internal/config/migrate.go
// Tags: config, migrate, json, yaml

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateProjectConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		legacy      string
		existing    string
		dryRun      bool
		wantSuccess bool
		wantWritten bool
		wantMsg     string
	}{
		"migrates legacy json": {
			legacy:      `{"git_tag_suffix":"-beta","major_types":["perf"]}`,
			wantSuccess: true,
			wantWritten: true,
			wantMsg:     "Migrated",
		},
		"dry run writes nothing": {
			legacy:      `{"private":true}`,
			dryRun:      true,
			wantSuccess: true,
			wantMsg:     "Would migrate",
		},
		"existing yaml is kept": {
			legacy:   `{"private":true}`,
			existing: "private: false\n",
			wantMsg:  "already exists",
		},
		"no legacy config": {
			wantMsg: "No JSON config found",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tt.legacy != "" {
				writeConfig(t, dir, LegacyProjectConfigFile, tt.legacy)
			}
			if tt.existing != "" {
				writeConfig(t, dir, ProjectConfigFile, tt.existing)
			}

			result, err := MigrateProjectConfig(dir, tt.dryRun)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Contains(t, result.Message, tt.wantMsg)

			content, readErr := os.ReadFile(filepath.Join(dir, ProjectConfigFile))
			switch {
			case tt.wantWritten:
				require.NoError(t, readErr)
				assert.Contains(t, string(content), "git_tag_suffix: -beta")
				assert.Contains(t, string(content), "- perf")
			case tt.existing != "":
				assert.Equal(t, tt.existing, string(content))
			default:
				assert.True(t, os.IsNotExist(readErr))
			}
		})
	}
}

func TestMigrateProjectConfig_InvalidJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, LegacyProjectConfigFile, `{"private":`)

	_, err := MigrateProjectConfig(dir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON config")
}

func TestMigrateProjectConfig_InputKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, LegacyProjectConfigFile,
		`{"latest-tag-name":"next","Private":true,"node-version":"20","registry-url":"https://npm.example.com"}`)

	result, err := MigrateProjectConfig(dir, false)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, []string{"node-version"}, result.Skipped)
	assert.Contains(t, result.Message, "skipped unknown keys: node-version")

	content, err := os.ReadFile(filepath.Join(dir, ProjectConfigFile))
	require.NoError(t, err)
	assert.Equal(t,
		"# easy-npm-publish configuration\n# Migrated from .easy-npm-publish.json\n\n"+
			"registry_url: https://npm.example.com\n"+
			"private: true\n"+
			"latest_tag_name: next\n",
		string(content))
}

func TestRemoveLegacyConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, LegacyProjectConfigFile, `{}`)

	require.NoError(t, RemoveLegacyConfig(path, true))
	assert.FileExists(t, path)

	require.NoError(t, RemoveLegacyConfig(path, false))
	assert.NoFileExists(t, path)
	assert.FileExists(t, path+".bak")

	require.NoError(t, RemoveLegacyConfig(path, false), "missing file is not an error")
}
