// Package manifest tests package.json parsing and order-preserving writes.
// Related: internal/manifest/manifest.go
// Tags: manifest, package-json, json

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "name": "@acme/widgets",
  "version": "1.2.3",
  "private": false,
  "scripts": {
    "build": "tsc",
    "publish": "npm publish ./dist"
  },
  "files": ["dist"],
  "engines": {"node": ">=18"}
}`

func TestParse(t *testing.T) {
	t.Parallel()

	pkg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "@acme/widgets", pkg.Name)
	assert.Equal(t, "1.2.3", pkg.Version)
	assert.True(t, pkg.HasScript("publish"))
	assert.False(t, pkg.HasScript("test"))
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		data    string
		wantMsg string
	}{
		"not json":         {data: `nope`, wantMsg: "decoding manifest"},
		"array":            {data: `[]`, wantMsg: "must be a JSON object"},
		"missing name":     {data: `{"version":"1.0.0"}`, wantMsg: `"name" is required`},
		"missing version":  {data: `{"name":"a"}`, wantMsg: `"version" is required`},
		"version not text": {data: `{"name":"a","version":1}`, wantMsg: `field "version"`},
		"bad scripts":      {data: `{"name":"a","version":"1.0.0","scripts":[]}`, wantMsg: `field "scripts"`},
		"trailing data":    {data: `{"name":"a","version":"1.0.0"} {}`, wantMsg: "unexpected data"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_ByteOrderMark(t *testing.T) {
	t.Parallel()

	pkg, err := Parse(append([]byte{0xEF, 0xBB, 0xBF}, `{"name":"a","version":"0.1.0"}`...))
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", pkg.Version)
}

func TestMarshalJSON_PreservesOrderAndFields(t *testing.T) {
	t.Parallel()

	pkg, err := Parse([]byte(`{"version":"1.0.0","name":"a","zeta":{"b":1,"a":[1,2]},"alpha":null}`))
	require.NoError(t, err)

	pkg.SetVersion("2.0.0")
	got, err := pkg.MarshalJSON()
	require.NoError(t, err)

	want := `{
  "version": "2.0.0",
  "name": "a",
  "zeta": {
    "b": 1,
    "a": [
      1,
      2
    ]
  },
  "alpha": null
}`
	assert.Equal(t, want, string(got))
	assert.Equal(t, "2.0.0", pkg.Version)
}

func TestReadWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := PathIn(dir)
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	pkg, err := Read(path)
	require.NoError(t, err)
	pkg.SetVersion("1.3.0")
	require.NoError(t, Write(path, pkg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reread, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", reread.Version)
	assert.Equal(t, "@acme/widgets", reread.Name)
	assert.Equal(t, pkg.Scripts, reread.Scripts)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"engines": {`)
}

func TestRead_Missing(t *testing.T) {
	t.Parallel()

	_, err := Read(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
