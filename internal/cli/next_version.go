package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/glitch452/easy-npm-publish/internal/changelog"
	"github.com/glitch452/easy-npm-publish/internal/config"
	clierrors "github.com/glitch452/easy-npm-publish/internal/errors"
	"github.com/glitch452/easy-npm-publish/internal/git"
	"github.com/glitch452/easy-npm-publish/internal/history"
	"github.com/glitch452/easy-npm-publish/internal/manifest"
	"github.com/glitch452/easy-npm-publish/internal/output"
	"github.com/glitch452/easy-npm-publish/internal/versioning"
	"github.com/glitch452/easy-npm-publish/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// rangeFlags select the commit window for the inspection commands.
type rangeFlags struct {
	current  string
	override string
	fromTag  string
	fromSHA  string
	head     string
}

var (
	nextVersionRange   rangeFlags
	nextVersionFormat  string
	nextVersionOutputs bool
)

var nextVersionCmd = &cobra.Command{
	Use:   "next-version",
	Short: "Print the next version without publishing",
	Long: `Resolve the commit window, classify the commits and compute the next
version. Nothing is written, published or tagged.

The current version defaults to the version in package.json. Without
--from-tag and --from-sha the entire history is scanned.`,
	Example: `  # Next version since the v1.4.2 release
  easy-npm-publish next-version --current 1.4.2 --from-tag v1.4.2 --from-sha 3f2c1e9

  # Machine readable
  easy-npm-publish next-version --format json

  # Also set GitHub Actions step outputs
  easy-npm-publish next-version --outputs`,
	Args: cobra.NoArgs,
	RunE: runNextVersion,
}

func init() {
	nextVersionCmd.GroupID = GroupInspection
	addRangeFlags(nextVersionCmd, &nextVersionRange)
	nextVersionCmd.Flags().StringVarP(&nextVersionFormat, "format", "f", "text", "Output format: text, json or yaml")
	nextVersionCmd.Flags().BoolVar(&nextVersionOutputs, "outputs", false, "Write step outputs to $GITHUB_OUTPUT")
	rootCmd.AddCommand(nextVersionCmd)
}

// addRangeFlags registers the commit window flags on cmd.
func addRangeFlags(cmd *cobra.Command, f *rangeFlags) {
	cmd.Flags().StringVar(&f.current, "current", "", "Current version (default: package.json version, else 0.0.0)")
	cmd.Flags().StringVar(&f.override, "override", "", "Use this version as the next version (default: version_override)")
	cmd.Flags().StringVar(&f.fromTag, "from-tag", "", "Tag of the previous release")
	cmd.Flags().StringVar(&f.fromSHA, "from-sha", "", "Commit of the previous release")
	cmd.Flags().StringVar(&f.head, "head", "", "Last commit of the range (default: $GITHUB_SHA, else HEAD)")
}

// planInput validates the range flags and builds the plan input.
func (f *rangeFlags) planInput(cfg *config.Configuration) (workflow.PlanInput, error) {
	if (f.fromTag == "") != (f.fromSHA == "") {
		return workflow.PlanInput{}, clierrors.InvalidFlagCombination("--from-tag/--from-sha",
			"--from-tag and --from-sha must be given together").
			WithUsage("--from-tag <tag> --from-sha <sha>")
	}

	in := workflow.PlanInput{
		Current:  f.current,
		Override: f.override,
		HeadSHA:  f.head,
	}
	if in.Override == "" {
		in.Override = cfg.VersionOverride
	}
	if in.Current == "" {
		in.Current = manifestVersion(cfg)
	}
	if f.fromTag != "" {
		in.Previous = &history.PreviousRelease{TagName: f.fromTag, SHA: f.fromSHA}
	}
	return in, nil
}

// manifestVersion returns the package.json version, or 0.0.0 when the
// manifest is missing or its version is not semver.
func manifestVersion(cfg *config.Configuration) string {
	dir := cfg.PackageDirectory
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workspaceDir(), dir)
	}
	pkg, err := manifest.Read(manifest.PathIn(dir))
	if err != nil {
		logger.Debug("no usable package manifest, starting from 0.0.0", zap.Error(err))
		return "0.0.0"
	}
	v, err := versioning.Parse(pkg.Version)
	if err != nil {
		logger.Warn("package.json version is not semver, starting from 0.0.0", zap.String("version", pkg.Version))
		return "0.0.0"
	}
	return v.String()
}

// planFromFlags loads configuration, opens the repository and computes a plan.
func planFromFlags(cmd *cobra.Command, flags *rangeFlags) (*workflow.Releaser, *workflow.Plan, error) {
	cfg, err := loadConfig(true)
	if err != nil {
		return nil, nil, err
	}

	in, err := flags.planInput(cfg)
	if err != nil {
		return nil, nil, err
	}

	repo, err := git.Open(workspaceDir())
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	planner := newPlanner(ctx, cfg, repo, cmd.ErrOrStderr())
	plan, err := planner.Plan(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	return planner, plan, nil
}

func runNextVersion(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(nextVersionFormat, "text", "json", "yaml"); err != nil {
		return err
	}

	_, plan, err := planFromFlags(cmd, &nextVersionRange)
	if err != nil {
		return err
	}

	outputs := output.VersionOutputs(plan.Info)
	if nextVersionOutputs {
		if err := output.NewActionWriter(io.Discard).Write(outputs); err != nil {
			return err
		}
	}

	return writePlan(cmd.OutOrStdout(), plan, outputs, nextVersionFormat)
}

// writePlan renders plan in the requested format.
func writePlan(w io.Writer, plan *workflow.Plan, outputs []output.Pair, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
		return enc.Close()
	default:
		resolution := plan.Range.Outcome.String()
		if plan.Range.Outcome.IsWarning() {
			resolution += " (release tag not found)"
		}
		output.PrintVersionSummary(w, append(outputs,
			output.Pair{Name: "range", Value: plan.Range.Spec()},
			output.Pair{Name: "resolution", Value: resolution},
			output.Pair{Name: "commits", Value: fmt.Sprint(len(plan.Commits))},
			output.Pair{Name: "changelog-entries", Value: fmt.Sprint(changelog.EntryCount(plan.Sections))},
		))
		return nil
	}
}

// checkFormat rejects unsupported --format values.
func checkFormat(format string, valid ...string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}
	return clierrors.InvalidFormat(format, valid...)
}
