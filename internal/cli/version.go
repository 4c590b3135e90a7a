package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/glitch452/easy-npm-publish/internal/build"
	"github.com/spf13/cobra"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for easy-npm-publish",
	Example: `  # Show version info
  easy-npm-publish version

  # Plain output (for scripts)
  easy-npm-publish version --plain`,
	Args: cobra.NoArgs,
	// Version output needs no logger.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		if versionPlain {
			printPlainVersion(cmd.OutOrStdout())
			return
		}
		printPrettyVersion(cmd.OutOrStdout())
	},
}

func init() {
	versionCmd.GroupID = GroupConfiguration
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
	rootCmd.AddCommand(versionCmd)
}

type versionField struct {
	label string
	value string
}

func versionFields() []versionField {
	return []versionField{
		{"Version", build.Version},
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "easy-npm-publish %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints the version fields as an aligned, colored table.
func printPrettyVersion(w io.Writer) {
	yellow := color.New(color.FgYellow).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+dim("easy-npm-publish"))
	fmt.Fprintln(w, "  "+dim(strings.Repeat("─", 16)))
	for _, f := range versionFields() {
		fmt.Fprintf(w, "  %s    %s\n", yellow(fmt.Sprintf("%10s", f.label)), white(f.value))
	}
	fmt.Fprintln(w)
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
