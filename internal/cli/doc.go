// Package cli implements the pimanager command-line interface.
//
// Each Cobra command resolves the configuration through loadApp, which
// builds the API client, download saver and logger, and then hands off to
// the package that does the work:
//
//	pimanager [dashboard]          - live TUI (internal/dashboard)
//	pimanager snapshot             - fetch every card once (internal/poller)
//	pimanager run update|reboot    - trigger an action, refetch log and status
//	pimanager command fastfetch|stui
//	pimanager export <series>      - CSV export (internal/export)
//	pimanager bundle               - report zip (internal/reports)
//	pimanager system               - platform summary
//	pimanager prefs                - saved UI preferences (internal/prefs)
//	pimanager version
//
// # Configuration
//
// Settings come from, highest precedence first: the --base-url and
// --download-dir flags, PIMANAGER_* environment variables, the config file
// (--config, ./pimanager.yaml, ~/.config/pimanager/config.yaml), then
// built-in defaults. See internal/config.
//
// # Errors
//
// Commands return *errors.Error values with a suggestion attached. Execute
// prints them to stderr and exits 1; usage is not reprinted.
package cli
