// Package publish runs npm to publish a package.
//
// When the scripts package defines a "publish" script it is run with
// "npm run publish"; otherwise "npm publish" is run in the package directory.
package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/glitch452/easy-npm-publish/internal/manifest"
	"go.uber.org/zap"
)

// Runner executes a command in a directory.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// Command is a program invocation.
type Command struct {
	Dir  string
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// ExecRunner runs commands with os/exec, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = orDefault(r.Stdout, os.Stdout)
	cmd.Stderr = orDefault(r.Stderr, os.Stderr)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running '%s' in %s: %w", c, c.Dir, err)
	}
	return nil
}

func orDefault(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

// Options describes one publish.
type Options struct {
	// PackageDir holds the package.json being published.
	PackageDir string
	// ScriptsDir holds the package.json whose publish script is preferred.
	ScriptsDir string
	// Package is the already loaded manifest of PackageDir.
	Package *manifest.Package
	Private bool
	DryRun  bool
	Verbose bool
}

// Publisher selects and runs the publish command.
type Publisher struct {
	Runner Runner
	Logger *zap.Logger
}

// New creates a publisher. A nil runner runs real commands.
func New(runner Runner, logger *zap.Logger) *Publisher {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{Runner: runner, Logger: logger}
}

// Publish runs the publish command, or only logs it in dry-run mode.
// It returns the selected command.
func (p *Publisher) Publish(ctx context.Context, opts Options) (Command, error) {
	cmd, err := p.Plan(opts)
	if err != nil {
		return Command{}, err
	}

	if opts.DryRun {
		p.Logger.Info(fmt.Sprintf("DRY RUN: Running script '%s' from directory '%s'", cmd, cmd.Dir))
		return cmd, nil
	}

	p.Logger.Info("publishing package", zap.String("command", cmd.String()), zap.String("dir", cmd.Dir))
	if err := p.Runner.Run(ctx, cmd); err != nil {
		return cmd, fmt.Errorf("publishing package: %w", err)
	}
	return cmd, nil
}

// Plan selects the publish command without running it.
func (p *Publisher) Plan(opts Options) (Command, error) {
	hasScript, err := publishScriptExists(opts)
	if err != nil {
		return Command{}, err
	}

	if hasScript {
		return Command{Dir: opts.ScriptsDir, Name: "npm", Args: []string{"run", "publish"}}, nil
	}

	access := "public"
	if opts.Private {
		access = "restricted"
	}
	args := []string{"publish", "--access=" + access}
	if opts.Verbose {
		args = append(args, "--verbose")
	}
	return Command{Dir: opts.PackageDir, Name: "npm", Args: args}, nil
}

// publishScriptExists checks the scripts package, reusing the loaded
// manifest when both directories are the same.
func publishScriptExists(opts Options) (bool, error) {
	if opts.ScriptsDir == "" || filepath.Clean(opts.ScriptsDir) == filepath.Clean(opts.PackageDir) {
		return opts.Package != nil && opts.Package.HasScript("publish"), nil
	}

	scripts, err := manifest.Read(manifest.PathIn(opts.ScriptsDir))
	if err != nil {
		return false, fmt.Errorf("reading scripts package: %w", err)
	}
	return scripts.HasScript("publish"), nil
}
