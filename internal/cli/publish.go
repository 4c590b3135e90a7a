package cli

import (
	"fmt"

	"github.com/glitch452/easy-npm-publish/internal/git"
	"github.com/glitch452/easy-npm-publish/internal/output"
	"github.com/spf13/cobra"
)

var publishDryRun bool

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the next version, tag it and create the GitHub release",
	Long: `Run the full release pipeline:

  1. Write the .npmrc used to authenticate npm
  2. Read package.json and the latest published version from the registry
  3. Resolve the commits since that release and compute the next version
  4. Write the version into package.json and publish the package
  5. Restore the workspace, then apply and push the release tags
  6. Create the GitHub release (enable_github_release) and set step outputs

Nothing runs when the head commit is already the latest release.`,
	Example: `  # Publish (inside GitHub Actions)
  easy-npm-publish publish

  # Show every step without writing, publishing, tagging or releasing
  easy-npm-publish publish --dry-run --debug`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	publishCmd.GroupID = GroupRelease
	addPublishFlags(publishCmd)
	rootCmd.AddCommand(publishCmd)
}

// addPublishFlags registers the publish flags on cmd.
func addPublishFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "Log actions instead of publishing, tagging and releasing")
}

func runPublish(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if publishDryRun {
		cfg.DryRun = true
	}

	repo, err := git.Open(workspaceDir())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	releaser, err := newReleaser(ctx, cfg, repo, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if cfg.DryRun {
		output.PrintSeparator(cmd.ErrOrStderr(), "dry run")
	}

	result, err := releaser.Run(ctx)
	if err != nil {
		return err
	}
	if result.AlreadyPublished {
		return nil
	}

	info := result.Plan.Info
	if result.NothingToPublish {
		output.PrintStepSuccess(cmd.ErrOrStderr(), fmt.Sprintf("%s %s is already published, nothing to publish", result.PackageName, info.Next))
		return nil
	}
	if cfg.DryRun {
		output.PrintStepSuccess(cmd.ErrOrStderr(), fmt.Sprintf("dry run complete: %s %s would be published", result.PackageName, info.Next))
		return nil
	}
	output.PrintStepSuccess(cmd.ErrOrStderr(), fmt.Sprintf("published %s %s", result.PackageName, info.Next))
	return nil
}
