// Package cli implements the easy-npm-publish command line.
package cli

import (
	"context"
	"errors"
	"os"

	clierrors "github.com/glitch452/easy-npm-publish/internal/errors"
	"github.com/glitch452/easy-npm-publish/internal/git"
	"github.com/glitch452/easy-npm-publish/internal/logging"
	"github.com/glitch452/easy-npm-publish/internal/progress"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Command groups shown in help output.
const (
	GroupRelease       = "release"
	GroupInspection    = "inspection"
	GroupConfiguration = "configuration"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	debug      bool
	dir        string
}

var (
	globals globalOptions
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "easy-npm-publish",
	Short: "Publish npm packages with versions derived from conventional commits",
	Long: `easy-npm-publish computes the next semantic version of a package from the
commits since its last published release, publishes it, tags the release
commit and creates a GitHub release with a generated changelog.

Running without a command is the same as 'easy-npm-publish publish'.

Configuration is loaded with the following priority (highest to lowest):
  1. GitHub Action inputs (INPUT_*)
  2. Environment variables (EASY_NPM_PUBLISH_*)
  3. Project config (.easy-npm-publish.yml)
  4. Built-in defaults`,
	Example: `  # Publish from a GitHub Actions workflow
  easy-npm-publish

  # See what would be released
  easy-npm-publish publish --dry-run

  # Print the next version without publishing
  easy-npm-publish next-version --current 1.4.2 --from-tag v1.4.2 --from-sha 3f2c1e9`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd, args)
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupInspection, Title: "Inspection Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	rootCmd.PersistentFlags().StringVarP(&globals.configPath, "config", "c", "", "Path to project config file (default: .easy-npm-publish.yml)")
	rootCmd.PersistentFlags().BoolVarP(&globals.debug, "debug", "d", false, "Enable debug logging (also enabled by RUNNER_DEBUG=1)")
	rootCmd.PersistentFlags().StringVar(&globals.dir, "dir", "", "Repository directory (default: $GITHUB_WORKSPACE or the current directory)")
	addPublishFlags(rootCmd)
}

// setupLogging builds the logger and wires the git debug hook.
func setupLogging(cmd *cobra.Command, _ []string) error {
	caps := progress.DetectTerminalCapabilities()
	logger = logging.New(logging.Options{
		Debug:       globals.debug || logging.DebugFromEnv(),
		Writer:      cmd.ErrOrStderr(),
		Color:       caps.SupportsColor,
		Annotations: logging.InGitHubActions(),
	})
	git.SetDebugLogger(logging.Sugared(logger))
	return nil
}

// debugEnabled reports whether debug output was requested.
func debugEnabled() bool {
	return globals.debug || logging.DebugFromEnv()
}

// workspaceDir returns the repository directory.
func workspaceDir() string {
	if globals.dir != "" {
		return globals.dir
	}
	if ws := os.Getenv("GITHUB_WORKSPACE"); ws != "" {
		return ws
	}
	return "."
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a caller supplied context.
func ExecuteContext(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	cliErr := toCLIError(err)
	if logging.InGitHubActions() {
		logger.Error(cliErr.Message)
	}
	clierrors.FprintError(rootCmd.ErrOrStderr(), cliErr)
	return exitCodeFor(err, cliErr)
}
