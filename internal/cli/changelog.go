package cli

import (
	"fmt"

	"github.com/glitch452/easy-npm-publish/internal/changelog"
	"github.com/spf13/cobra"
)

var (
	changelogRange  rangeFlags
	changelogFormat string
	changelogPlain  bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Print the changelog of the next release",
	Long: `Print the changelog generated from the commits of the next release.

The markdown format is the GitHub release body. The terminal format adds
colors and icons, and yaml emits the grouped sections for other tools.`,
	Example: `  easy-npm-publish changelog --from-tag v1.4.2 --from-sha 3f2c1e9
  easy-npm-publish changelog --format terminal
  easy-npm-publish changelog --format terminal --plain
  easy-npm-publish changelog --format yaml`,
	Args: cobra.NoArgs,
	RunE: runChangelog,
}

func init() {
	changelogCmd.GroupID = GroupInspection
	addRangeFlags(changelogCmd, &changelogRange)
	changelogCmd.Flags().StringVarP(&changelogFormat, "format", "f", "markdown", "Output format: markdown, terminal or yaml")
	changelogCmd.Flags().BoolVar(&changelogPlain, "plain", false, "Plain text output (no colors/icons)")
	rootCmd.AddCommand(changelogCmd)
}

func runChangelog(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(changelogFormat, "markdown", "terminal", "yaml"); err != nil {
		return err
	}

	planner, plan, err := planFromFlags(cmd, &changelogRange)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch changelogFormat {
	case "terminal":
		return changelog.FormatTerminal(plan.Sections, out, changelog.FormatOptions{
			Plain:      changelogPlain,
			MajorTypes: planner.Config.MajorTypes,
		})
	case "yaml":
		return changelog.RenderYAML(plan.Sections, out)
	default:
		if changelog.EntryCount(plan.Sections) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No conventional commits found in range.")
			return nil
		}
		body, err := planner.Changelog(plan)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, body)
		return err
	}
}
