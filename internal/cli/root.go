package cli

import (
	"fmt"
	"os"

	"github.com/rileyhilliard/pimanager/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Persistent flags
var (
	configFlag      string
	baseURLFlag     string
	downloadDirFlag string
)

// conf holds the resolved configuration sources. Persistent flags are bound
// onto it so a flag beats the environment, which beats the config file.
var conf *viper.Viper

var rootCmd = &cobra.Command{
	Use:   "pimanager",
	Short: "Terminal dashboard for a Raspberry Pi appliance",
	Long: `pimanager watches a Raspberry Pi running an ad-blocking DNS server and
its maintenance API.

With no subcommand it opens the live dashboard: DNS query and blocked
domain charts, per-device usage, the update log, speed tests, and on-demand
diagnostic commands. The subcommands do the same things one at a time for
scripts.

Configuration is read from ./pimanager.yaml or ~/.config/pimanager/config.yaml,
and every key can be overridden with a PIMANAGER_ environment variable.

Examples:
  pimanager
  pimanager --base-url http://pi.lan:5000
  pimanager export queries --out queries.csv
  pimanager bundle --reports fastfetch,log`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd)
	},
}

func init() {
	conf = config.NewViper()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", "", "config file (default ./pimanager.yaml or ~/.config/pimanager/config.yaml)")
	flags.StringVar(&baseURLFlag, "base-url", "", "root URL of the Pi's API, e.g. http://pi.lan:5000")
	flags.StringVar(&downloadDirFlag, "download-dir", "", "directory for exports and downloads")

	_ = conf.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = conf.BindPFlag("download_dir", flags.Lookup("download-dir"))
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
