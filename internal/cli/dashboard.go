package cli

import (
	"context"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/pimanager/internal/dashboard"
	"github.com/rileyhilliard/pimanager/internal/logger"
	"github.com/spf13/cobra"
)

// debugLogFile receives log output while the dashboard owns the terminal.
const debugLogFile = "pimanager-debug.log"

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the live dashboard (default)",
	Long: `Open the interactive dashboard.

Stats refresh every poll_interval; everything else refreshes on demand.

Keyboard shortcuts:
  u           Run system update
  R           Reboot (asks first)
  l           Refresh update log and status
  s           Run a speed test
  r           Refresh stats and speed history
  f / t       Show fastfetch / s-tui output
  e           Download a report bundle
  c b v h     Export queries / blocked / devices / speed history as CSV
  d           Toggle dark mode
  ?           Show help
  q / Ctrl+C  Quit

Set PIMANAGER_DEBUG=1 to write a debug log to ` + debugLogFile + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// dashboardCommand runs the TUI until the user quits.
func dashboardCommand(cmd *cobra.Command) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	settings, err := a.prefs()
	if err != nil {
		return err
	}

	// The standard logger would draw over the alt screen.
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(debugLogFile, "pimanager")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := a.poller()
	model := dashboard.New(dashboard.Options{
		Context:        ctx,
		Poller:         p,
		Commands:       a.runners(),
		Bundler:        a.bundler(),
		Exporter:       a.exporter(),
		Saver:          a.saver,
		Prefs:          settings,
		System:         a.client,
		RevealInterval: a.cfg.RevealInterval,
		BaseURL:        a.client.BaseURL(),
		Log:            a.log,
	})

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	// Stop is idempotent; the model already stops the poller on quit.
	p.Stop()
	return err
}
