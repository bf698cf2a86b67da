package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// versionShort controls whether to show short or full version output
var versionShort bool

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of pimanager.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, version)
			return
		}

		fmt.Fprintf(out, "pimanager %s\n", formatVersion(version))
		fmt.Fprintf(out, "commit: %s\n", commit)
		fmt.Fprintf(out, "built: %s\n", date)
		fmt.Fprintf(out, "go: %s\n", runtime.Version())
		fmt.Fprintf(out, "os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}

// formatVersion ensures version has a 'v' prefix for display
func formatVersion(v string) string {
	if v == "" || v == "dev" {
		return v
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
