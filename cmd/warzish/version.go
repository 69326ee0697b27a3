package warzish

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/db"
)

// Set with -ldflags "-X github.com/usman-wf/warzish-sub000/cmd/warzish.version=...".
var (
	version = "dev"
	commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version/build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd)
	},
}

func printVersion(cmd *cobra.Command) {
	rev := commit
	goVersion := ""
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && rev == "" {
				rev = s.Value
			}
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "warzish %s\n", version)
	if rev != "" {
		fmt.Fprintf(out, "commit: %s\n", rev)
	}
	if goVersion != "" {
		fmt.Fprintf(out, "go: %s\n", goVersion)
	}
	fmt.Fprintf(out, "schema: %d\n", db.LatestVersion())
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
