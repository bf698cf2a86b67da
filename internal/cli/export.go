package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/rileyhilliard/pimanager/internal/export"
	"github.com/spf13/cobra"
)

var exportOutFlag string

// exportSeries is one series the export command can write.
type exportSeries struct {
	file  string
	fetch func(cmd *cobra.Command, a *app) ([]export.Record, error)
}

var exportSeriesByName = map[string]exportSeries{
	"queries": {file: export.QueriesFile, fetch: func(cmd *cobra.Command, a *app) ([]export.Record, error) {
		s, err := a.client.FetchStats(cmd.Context())
		return export.QueryRecords(s.Queries), err
	}},
	"blocked": {file: export.BlockedFile, fetch: func(cmd *cobra.Command, a *app) ([]export.Record, error) {
		s, err := a.client.FetchStats(cmd.Context())
		return export.BlockedRecords(s.Blocked), err
	}},
	"devices": {file: export.DevicesFile, fetch: func(cmd *cobra.Command, a *app) ([]export.Record, error) {
		s, err := a.client.FetchStats(cmd.Context())
		return export.DeviceRecords(s.Devices), err
	}},
	"speedtest": {file: export.SpeedHistoryFile, fetch: func(cmd *cobra.Command, a *app) ([]export.Record, error) {
		samples, err := a.client.FetchSpeedHistory(cmd.Context())
		return export.SpeedRecords(samples), err
	}},
}

var exportCmd = &cobra.Command{
	Use:   "export <queries|blocked|devices|speedtest>",
	Short: "Export a series as CSV",
	Long: `Fetch one series from the Pi and write it as CSV.

The header row comes from the first record; every value is JSON-encoded so
strings are quoted. An empty series writes nothing.

Default file names:
  queries    queries.csv
  blocked    blocked.csv
  devices    devices.csv
  speedtest  speedtest_history.csv

Examples:
  pimanager export queries
  pimanager export speedtest --out ~/speeds.csv`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"queries", "blocked", "devices", "speedtest"},
	RunE: func(cmd *cobra.Command, args []string) error {
		series, ok := exportSeriesByName[strings.ToLower(args[0])]
		if !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown series %q", args[0]),
				"Use one of: queries, blocked, devices, speedtest")
		}

		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		records, err := series.fetch(cmd, a)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrAPI,
				"Could not fetch "+args[0],
				"Check the Pi is reachable at "+a.cfg.BaseURL)
		}

		saver, name := a.saver, series.file
		if exportOutFlag != "" {
			saver = export.NewDirSaver(filepath.Dir(exportOutFlag))
			name = filepath.Base(exportOutFlag)
		}

		path, err := export.NewExporter(saver, a.log).Export(records, name)
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintf(a.out, "No %s data to export\n", args[0])
			return nil
		}
		fmt.Fprintf(a.out, "Wrote %d rows to %s\n", len(records), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutFlag, "out", "o", "", "write to this file instead of the download directory")
}
