package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/rileyhilliard/pimanager/internal/export"
)

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyToggleHelp = "?"
	KeyClose      = "esc"

	// Dashboard
	KeyUpdate       = "u"
	KeyReboot       = "R"
	KeyRefreshLog   = "l"
	KeySpeedTest    = "s"
	KeyRefresh      = "r"
	KeyFastfetch    = "f"
	KeyStui         = "t"
	KeyReports      = "e"
	KeyDarkMode     = "d"
	KeyExportQuery  = "c"
	KeyExportBlock  = "b"
	KeyExportDevice = "v"
	KeyExportSpeed  = "h"
	KeyConfirm      = "y"

	// Command output
	KeyRefreshOutput = "r"
	KeyFullscreen    = "f"
	KeyCopy          = "c"
	KeySave          = "s"
	KeySelect        = "v"
	KeySelectAll     = "a"
	KeyFinishReveal  = "enter"

	// Navigation
	KeyUp        = "up"
	KeyUpAlt     = "k"
	KeyDown      = "down"
	KeyDownAlt   = "j"
	KeyPageUp    = "pgup"
	KeyPageDown  = "pgdown"
	KeyTop       = "home"
	KeyTopAlt    = "g"
	KeyBottom    = "end"
	KeyBottomAlt = "G"

	// Report selector
	KeyToggle    = " "
	KeyToggleAlt = "x"
	KeyDownload  = "enter"
)

// handleKey routes a key press to the active overlay, or to the dashboard
// when nothing is open.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.overlay {
	case overlayCommand:
		return m, m.handleCommandKey(key)
	case overlayReports:
		return m, m.handleSelectorKey(key)
	case overlayHelp:
		switch key {
		case KeyQuitAlt:
			return m, m.quit()
		case KeyToggleHelp, KeyClose, KeyQuit:
			m.overlay = overlayNone
		}
		return m, nil
	case overlayConfirmReboot:
		switch key {
		case KeyQuitAlt:
			return m, m.quit()
		case KeyConfirm:
			m.overlay = overlayNone
			m.opts.Poller.RunCommand(api.ActionReboot)
			return m, m.setFlash("Reboot requested", false)
		default:
			m.overlay = overlayNone
		}
		return m, nil
	}

	p := m.opts.Poller
	switch key {
	case KeyQuit, KeyQuitAlt:
		return m, m.quit()

	case KeyToggleHelp:
		m.overlay = overlayHelp

	case KeyUpdate:
		p.RunCommand(api.ActionUpdate)
		return m, m.setFlash("Update requested", false)

	case KeyReboot:
		m.overlay = overlayConfirmReboot

	case KeyRefreshLog:
		p.RefreshLog()
		p.RefreshStatus()

	case KeySpeedTest:
		p.RunSpeedTest()

	case KeyRefresh:
		p.RefreshStats()
		p.RefreshSpeedHistory()

	case KeyFastfetch:
		return m, m.openCommand(m.commandIndex("fastfetch"))

	case KeyStui:
		return m, m.openCommand(m.commandIndex("stui"))

	case KeyReports:
		m.openSelector()

	case KeyDarkMode:
		return m, m.toggleDarkMode()

	case KeyExportQuery:
		return m, m.exportCmd("queries", export.QueryRecords(m.state.Stats.Queries), export.QueriesFile)
	case KeyExportBlock:
		return m, m.exportCmd("blocked", export.BlockedRecords(m.state.Stats.Blocked), export.BlockedFile)
	case KeyExportDevice:
		return m, m.exportCmd("devices", export.DeviceRecords(m.state.Stats.Devices), export.DevicesFile)
	case KeyExportSpeed:
		return m, m.exportCmd("speed history", export.SpeedRecords(m.state.SpeedHistory), export.SpeedHistoryFile)
	}

	return m, nil
}

// commandIndex returns the position of the named runner, or -1.
func (m Model) commandIndex(name string) int {
	for i, r := range m.opts.Commands {
		if r.Definition().Name == name {
			return i
		}
	}
	return -1
}
