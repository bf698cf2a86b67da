package cli

import (
	"fmt"

	"github.com/rileyhilliard/pimanager/internal/dashboard"
	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/spf13/cobra"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show the Pi's platform summary",
	Long: `Print the operating system, uptime, CPU and RAM use, and power state
reported by the Pi.

Examples:
  pimanager system`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		info, err := a.client.FetchSystem(cmd.Context())
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrAPI,
				"Could not fetch system info",
				"Check the Pi is reachable at "+a.cfg.BaseURL)
		}
		fmt.Fprintln(a.out, dashboard.SystemSummary(info))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(systemCmd)
}
