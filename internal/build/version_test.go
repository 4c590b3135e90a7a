// Package build tests build metadata helpers.
// Related: internal/build/version.go
// Tags: build, version

package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDevBuild(t *testing.T) {
	// Mutates package state; not parallel.
	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := map[string]struct {
		version string
		want    bool
	}{
		"dev":     {version: "dev", want: true},
		"release": {version: "1.4.0", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			Version = tt.version
			assert.Equal(t, tt.want, IsDevBuild())
		})
	}
}

func TestUserAgent(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "2.0.1"
	assert.Equal(t, "easy-npm-publish/2.0.1", UserAgent())
}
