package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/rileyhilliard/pimanager/internal/poller"
	"github.com/rileyhilliard/pimanager/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runYesFlag bool

var runCmd = &cobra.Command{
	Use:   "run <update|reboot>",
	Short: "Trigger a maintenance action on the Pi",
	Long: `Ask the Pi to start a system update or a reboot, then print the update
log and status as they stand afterwards.

The trigger's response body is not interpreted: a request that reached the
Pi counts as sent, whatever it returned. Reboot asks for confirmation on a
terminal; pass --yes to skip it.

Examples:
  pimanager run update
  pimanager run reboot --yes`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(api.ActionUpdate), string(api.ActionReboot)},
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := api.ParseAction(args[0])
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
				"Use 'pimanager run update' or 'pimanager run reboot'.")
		}

		if action == api.ActionReboot && !runYesFlag {
			ok, err := confirmReboot()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Reboot cancelled")
				return nil
			}
		}

		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return runAction(cmd, a, action)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runYesFlag, "yes", "y", false, "skip the reboot confirmation")
}

// confirmReboot asks on a terminal and refuses without one.
func confirmReboot() (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New(errors.ErrConfig,
			"Refusing to reboot without confirmation",
			"Pass --yes when running non-interactively.")
	}

	var proceed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reboot the Pi?").
				Affirmative("Reboot").
				Negative("Cancel").
				Value(&proceed),
		),
	)
	if err := form.Run(); err != nil {
		return false, promptErr(err)
	}
	return proceed, nil
}

// promptErr treats a user abort (esc, ctrl+c) as "no" and reports anything
// else the form failed with.
func promptErr(err error) error {
	if err == nil || stderrors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return errors.WrapWithCode(err, errors.ErrConfig,
		"Interactive prompt failed",
		"Pass the choice as a flag instead.")
}

// runAction drives the poller's trigger sequence and prints what comes back:
// the trigger notice, then the refreshed log and status.
func runAction(cmd *cobra.Command, a *app, action api.Action) error {
	p := a.poller()
	defer p.Stop()

	p.RunCommand(action)

	state := poller.NewState()
	for u := range p.Updates() {
		state.Apply(u)
		if u.Slot == poller.SlotBusy && u.Busy == 0 {
			break
		}
	}

	out := a.out
	if err := state.Err(poller.SlotTrigger); err != nil {
		fmt.Fprintln(out, errorStyle.Render(ui.SymbolFail+" "+state.Notice))
	} else {
		fmt.Fprintln(out, successStyle.Render(ui.SymbolSuccess+" "+state.Notice))
	}
	fmt.Fprintf(out, "\nStatus: %s\n\n%s\n", state.Status, strings.TrimRight(state.Log, "\n"))

	if err := state.Err(poller.SlotTrigger); err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("The %s request did not reach the Pi", action),
			"Check base_url and that the Pi is powered on.")
	}
	return nil
}
