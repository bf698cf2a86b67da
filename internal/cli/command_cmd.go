package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/pimanager/internal/command"
	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/spf13/cobra"
)

var commandSaveFlag bool

var commandCmd = &cobra.Command{
	Use:   "command <fastfetch|stui>",
	Short: "Print the output of a diagnostic command",
	Long: `Run one of the Pi's diagnostic commands and print its output.

With --save the output is also written to the download directory as
<Title>_<UTC timestamp>_output.txt.

Examples:
  pimanager command fastfetch
  pimanager command stui --save`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: commandNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, ok := command.Lookup(args[0])
		if !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown command %q", args[0]),
				"Available: "+strings.Join(commandNames(), ", "))
		}

		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		out := command.NewRunner(def, a.client, a.log).Fetch(cmd.Context())
		fmt.Fprintln(a.out, out.Raw)
		if out.Err != nil {
			return errors.WrapWithCode(out.Err, errors.ErrAPI,
				def.Title+" failed",
				"Check the Pi is reachable at "+a.cfg.BaseURL)
		}

		if commandSaveFlag {
			path, err := command.Download(a.saver, def.Title, out.Raw, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commandCmd)
	commandCmd.Flags().BoolVar(&commandSaveFlag, "save", false, "also save the output to the download directory")
}

func commandNames() []string {
	defs := command.Definitions()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}
