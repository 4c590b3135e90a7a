package cli

import (
	"fmt"

	"github.com/glitch452/easy-npm-publish/internal/health"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that publishing can run in this workspace",
	Long: `Check the prerequisites of the publish pipeline:

  - git and npm are on PATH
  - the workspace is a git repository
  - package_directory holds a package.json with a name
  - the tokens the enabled features need are configured

Exits with a non-zero code when a required check fails.`,
	Example: `  easy-npm-publish doctor
  easy-npm-publish doctor --dir packages/app`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	opts := health.Options{Dir: workspaceDir()}

	cfg, err := loadConfig(true)
	if err != nil {
		logger.Warn("configuration checks skipped", zap.Error(err))
	} else {
		opts.Config = cfg
	}

	report := health.RunHealthChecks(opts)
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
	if err != nil {
		return err
	}
	if !report.Passed {
		return NewExitError(ExitMissingDependencies)
	}
	return nil
}
