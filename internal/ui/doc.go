// Package ui holds the terminal styling shared by the dashboard and the
// one-shot commands.
//
// # Color Scheme
//
// Plain command output uses ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and errors
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, file paths
//
// The dashboard uses a Palette instead, chosen by the darkMode preference.
// Each metric series has its own color in both palettes.
//
// # Symbols
//
//	SymbolSuccess  (checkmark)  - Operation succeeded
//	SymbolFail     (X)          - Operation failed
//	SymbolChecked  (filled)     - Selected item
//	SymbolPending  (circle)     - Unselected item
package ui
