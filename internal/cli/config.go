package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/glitch452/easy-npm-publish/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configInitForce     bool
	configMigrateDryRun bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage easy-npm-publish configuration",
	Long: `Manage easy-npm-publish configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. GitHub Action inputs (INPUT_*)
  2. Environment variables (EASY_NPM_PUBLISH_*)
  3. Project config (.easy-npm-publish.yml)
  4. Built-in defaults`,
	Example: `  # Create a commented project config
  easy-npm-publish config init

  # Show the effective configuration
  easy-npm-publish config show

  # Convert .easy-npm-publish.json to YAML
  easy-npm-publish config migrate`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented project config file",
	Long: `Create .easy-npm-publish.yml in the repository directory with every
option and its default value.

An existing config is left unchanged unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the configuration after applying defaults, the project config,
environment variables and action inputs. Tokens are redacted.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert the legacy JSON project config to YAML",
	Long: `Convert .easy-npm-publish.json to .easy-npm-publish.yml. The JSON file is
kept as .easy-npm-publish.json.bak. An existing YAML config is never
overwritten.`,
	Args: cobra.NoArgs,
	RunE: runConfigMigrate,
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config with defaults")
	configMigrateCmd.Flags().BoolVar(&configMigrateDryRun, "dry-run", false, "Show what would be migrated without writing")

	configCmd.AddCommand(configInitCmd, configShowCmd, configMigrateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configTarget()
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil && !configInitForce {
		fmt.Fprintf(out, "%s Config already exists at %s (use --force to overwrite)\n",
			color.YellowString("⚠"), path)
		return nil
	}

	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(out, "%s Created %s\n", color.GreenString("✓"), path)
	return nil
}

// configTarget is the project config path, honoring --config.
func configTarget() string {
	if globals.configPath != "" {
		return globals.configPath
	}
	return config.ProjectConfigPath(workspaceDir())
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Map()); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

func runConfigMigrate(cmd *cobra.Command, _ []string) error {
	dir := workspaceDir()
	result, err := config.MigrateProjectConfig(dir, configMigrateDryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !result.Success {
		fmt.Fprintln(out, result.Message)
		return nil
	}

	if err := config.RemoveLegacyConfig(result.SourcePath, configMigrateDryRun); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", color.GreenString("✓"), result.Message)
	return nil
}
