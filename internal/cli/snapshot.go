package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/rileyhilliard/pimanager/internal/poller"
	"github.com/rileyhilliard/pimanager/internal/ui"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch every card once and print it",
	Long: `Fetch the update log, ad-blocker status, last speed test, speed history
and DNS stats once, concurrently, and print them.

A failing endpoint is reported in place; the rest still print.

Examples:
  pimanager snapshot
  pimanager snapshot --base-url http://pi.lan:5000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		state, err := a.poller().Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		printSnapshot(a.out, state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

// printSnapshot writes state as plain sections.
func printSnapshot(w io.Writer, state poller.State) {
	section := func(title, body string) {
		fmt.Fprintf(w, "%s\n%s\n\n", titleStyle.Render("== "+title+" =="), strings.TrimRight(body, "\n"))
	}

	section("Status", state.Status)
	section("Update Log", state.Log)
	section("Speed Test", state.SpeedTest)

	if err := state.Err(poller.SlotStats); err != nil {
		section("DNS Stats", errorStyle.Render(ui.SymbolFail+" "+err.Error()))
	} else {
		section("DNS Stats", statsSummary(state.Stats))
	}

	if err := state.Err(poller.SlotSpeedHistory); err != nil {
		section("Speed History", errorStyle.Render(ui.SymbolFail+" "+err.Error()))
	} else {
		section("Speed History", speedTable(state.SpeedHistory))
	}
}

func statsSummary(s api.Stats) string {
	var queries, blocked int64
	for _, p := range s.Queries {
		queries += p.Queries
	}
	for _, p := range s.Blocked {
		blocked += p.Blocked
	}

	lines := []string{
		fmt.Sprintf("queries: %s over %d samples", humanize.Comma(queries), len(s.Queries)),
		fmt.Sprintf("blocked: %s over %d samples", humanize.Comma(blocked), len(s.Blocked)),
	}
	if len(s.Devices) == 0 {
		return strings.Join(append(lines, "devices: none"), "\n")
	}

	rows := make([][]string, len(s.Devices))
	for i, d := range s.Devices {
		rows[i] = []string{d.Device, humanize.Comma(d.Queries)}
	}
	table := ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "Device", Width: 24},
		{Title: "Queries", Width: 10},
	}, rows)
	return strings.Join(lines, "\n") + "\n" + table
}

func speedTable(samples []api.SpeedSample) string {
	if len(samples) == 0 {
		return "no samples"
	}
	rows := make([][]string, len(samples))
	for i, s := range samples {
		rows[i] = []string{s.Time, fmt.Sprintf("%.1f", s.Download), fmt.Sprintf("%.1f", s.Upload)}
	}
	return ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "Time", Width: 20},
		{Title: "Down Mbit/s", Width: 12},
		{Title: "Up Mbit/s", Width: 12},
	}, rows)
}
