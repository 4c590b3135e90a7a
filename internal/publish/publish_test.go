// Package publish tests publish command selection and dry-run behavior.
// Related: internal/publish/publish.go
// Tags: publish, npm, dry-run

package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/glitch452/easy-npm-publish/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// mockRunner records commands and returns RunFn's result.
type mockRunner struct {
	commands []Command
	RunFn    func(Command) error
}

var _ Runner = (*mockRunner)(nil)

func (m *mockRunner) Run(_ context.Context, c Command) error {
	m.commands = append(m.commands, c)
	if m.RunFn != nil {
		return m.RunFn(c)
	}
	return nil
}

func mustParse(t *testing.T, data string) *manifest.Package {
	t.Helper()
	pkg, err := manifest.Parse([]byte(data))
	require.NoError(t, err)
	return pkg
}

func writeManifest(t *testing.T, dir, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(manifest.PathIn(dir), []byte(data), 0o644))
}

func TestPlan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	pkgDir := filepath.Join(root, "packages", "lib")
	scriptsDir := filepath.Join(root, "tools")
	plainDir := filepath.Join(root, "plain")
	writeManifest(t, scriptsDir, `{"name":"tools","version":"0.0.0","scripts":{"publish":"node publish.js"}}`)
	writeManifest(t, plainDir, `{"name":"plain","version":"0.0.0"}`)

	withScript := mustParse(t, `{"name":"lib","version":"1.0.0","scripts":{"publish":"npm publish dist"}}`)
	withoutScript := mustParse(t, `{"name":"lib","version":"1.0.0"}`)

	tests := map[string]struct {
		opts Options
		want Command
	}{
		"public publish": {
			opts: Options{PackageDir: pkgDir, ScriptsDir: pkgDir, Package: withoutScript},
			want: Command{Dir: pkgDir, Name: "npm", Args: []string{"publish", "--access=public"}},
		},
		"private verbose publish": {
			opts: Options{PackageDir: pkgDir, ScriptsDir: pkgDir, Package: withoutScript, Private: true, Verbose: true},
			want: Command{Dir: pkgDir, Name: "npm", Args: []string{"publish", "--access=restricted", "--verbose"}},
		},
		"publish script in package": {
			opts: Options{PackageDir: pkgDir, ScriptsDir: pkgDir + "/", Package: withScript},
			want: Command{Dir: pkgDir + "/", Name: "npm", Args: []string{"run", "publish"}},
		},
		"publish script in scripts package": {
			opts: Options{PackageDir: pkgDir, ScriptsDir: scriptsDir, Package: withoutScript},
			want: Command{Dir: scriptsDir, Name: "npm", Args: []string{"run", "publish"}},
		},
		"scripts package without publish script": {
			opts: Options{PackageDir: pkgDir, ScriptsDir: plainDir, Package: withScript},
			want: Command{Dir: pkgDir, Name: "npm", Args: []string{"publish", "--access=public"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := New(&mockRunner{}, nil).Plan(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlan_MissingScriptsPackage(t *testing.T) {
	t.Parallel()

	_, err := New(&mockRunner{}, nil).Plan(Options{PackageDir: t.TempDir(), ScriptsDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading scripts package")
}

func TestPublish(t *testing.T) {
	t.Parallel()

	pkg := mustParse(t, `{"name":"lib","version":"1.0.0"}`)

	t.Run("runs the command", func(t *testing.T) {
		t.Parallel()

		runner := &mockRunner{}
		cmd, err := New(runner, nil).Publish(context.Background(), Options{PackageDir: "pkg", Package: pkg})
		require.NoError(t, err)
		assert.Equal(t, []Command{cmd}, runner.commands)
	})

	t.Run("dry run only logs", func(t *testing.T) {
		t.Parallel()

		runner := &mockRunner{}
		core, logs := observer.New(zapcore.InfoLevel)
		_, err := New(runner, zap.New(core)).Publish(context.Background(), Options{PackageDir: "pkg", Package: pkg, DryRun: true})
		require.NoError(t, err)

		assert.Empty(t, runner.commands)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "DRY RUN: Running script 'npm publish --access=public' from directory 'pkg'", logs.All()[0].Message)
	})

	t.Run("runner error is wrapped", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("exit status 1")
		runner := &mockRunner{RunFn: func(Command) error { return errBoom }}
		_, err := New(runner, nil).Publish(context.Background(), Options{PackageDir: "pkg", Package: pkg})
		require.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "publishing package")
	})
}

func TestExecRunner(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell utilities")
	}

	dir := t.TempDir()
	err := ExecRunner{}.Run(context.Background(), Command{Dir: dir, Name: "sh", Args: []string{"-c", "pwd > out.txt"}})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "out.txt"))

	err = ExecRunner{}.Run(context.Background(), Command{Dir: dir, Name: "sh", Args: []string{"-c", "exit 3"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running 'sh -c exit 3'")
}
