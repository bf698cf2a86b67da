package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/rileyhilliard/pimanager/internal/reports"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var bundleReportsFlag string

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Download a zip of diagnostic reports",
	Long: `Ask the Pi to zip the selected reports and save the archive as
PiReports.zip in the download directory.

Reports: fastfetch, stui, speedtest, log. They are requested in the order
given. Without --reports you pick them interactively on a terminal.

Examples:
  pimanager bundle
  pimanager bundle --reports fastfetch,log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := bundleSelection()
		if err != nil {
			return err
		}
		if sel.Empty() {
			return reports.ErrEmptySelection
		}

		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		res, err := a.bundler().Download(cmd.Context(), sel)
		if err != nil {
			return err
		}

		fmt.Fprintf(a.out, "Saved %s (%s)\n", res.Path, humanize.Bytes(uint64(res.Size)))
		for _, m := range res.Members {
			fmt.Fprintln(a.out, mutedStyle.Render("  "+m))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)
	bundleCmd.Flags().StringVarP(&bundleReportsFlag, "reports", "r", "", "comma-separated reports to include")
}

// bundleSelection reads --reports, or asks on a terminal.
func bundleSelection() (reports.Selection, error) {
	if bundleReportsFlag != "" {
		kinds, err := reports.ParseKinds(bundleReportsFlag)
		if err != nil {
			return reports.Selection{}, errors.WrapWithCode(err, errors.ErrBundle, err.Error(),
				"Pick from: "+strings.Join(kindNames(), ", "))
		}
		return reports.NewSelection(kinds...), nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return reports.Selection{}, errors.New(errors.ErrBundle,
			"No reports selected",
			"Pass --reports, e.g. --reports fastfetch,log")
	}

	var picked []string
	options := make([]huh.Option[string], 0, len(reports.Kinds()))
	for _, info := range reports.Kinds() {
		options = append(options, huh.NewOption(info.Label, string(info.Kind)))
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Reports to bundle").
				Options(options...).
				Value(&picked),
		),
	)
	if err := form.Run(); err != nil {
		return reports.Selection{}, promptErr(err)
	}

	var sel reports.Selection
	for _, name := range picked {
		sel.Toggle(reports.Kind(name))
	}
	return sel, nil
}

func kindNames() []string {
	var names []string
	for _, info := range reports.Kinds() {
		names = append(names, string(info.Kind))
	}
	return names
}
