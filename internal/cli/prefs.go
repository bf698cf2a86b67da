package cli

import (
	"fmt"

	"github.com/rileyhilliard/pimanager/internal/prefs"
	"github.com/spf13/cobra"
)

var (
	prefsDarkModeFlag   bool
	prefsFullscreenFlag bool
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change saved UI preferences",
	Long: `Show the saved dashboard preferences, or change them with flags.

Preferences live in prefs_path (default ~/.config/pimanager/prefs.yaml).
When darkMode has never been set it follows the terminal background.

Examples:
  pimanager prefs
  pimanager prefs --dark-mode=false
  pimanager prefs --fullscreen`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		settings, err := a.prefs()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("dark-mode") {
			if err := settings.SetDarkMode(prefsDarkModeFlag); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("fullscreen") {
			if err := settings.SetCommandFullscreen(prefsFullscreenFlag); err != nil {
				return err
			}
		}

		fmt.Fprintf(a.out, "%s: %t\n", prefs.KeyDarkMode, settings.DarkMode())
		fmt.Fprintf(a.out, "%s: %t\n", prefs.KeyCommandFullscreen, settings.CommandFullscreen())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.Flags().BoolVar(&prefsDarkModeFlag, "dark-mode", false, "use the dark palette")
	prefsCmd.Flags().BoolVar(&prefsFullscreenFlag, "fullscreen", false, "open command output fullscreen")
}
