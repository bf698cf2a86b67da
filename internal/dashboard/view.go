package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/rileyhilliard/pimanager/internal/poller"
	"github.com/rileyhilliard/pimanager/internal/ui"
)

// twoColumnWidth is the terminal width from which cards sit side by side.
const twoColumnWidth = 100

// textCardLines is how many trailing lines of log output a card shows.
const textCardLines = 8

// render draws the dashboard, or the active overlay in its place.
func (m Model) render() string {
	switch m.overlay {
	case overlayCommand:
		return m.renderCommandModal()
	case overlayReports:
		return m.renderSelector()
	case overlayHelp:
		return m.renderHelpOverlay()
	case overlayConfirmReboot:
		return m.renderRebootConfirm()
	}
	return m.renderDashboard()
}

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderCards())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title bar with the Pi's platform summary.
func (m Model) renderHeader() string {
	s := m.styles
	title := s.Title.Render("🧠 Pi Manager Dashboard")

	info := ""
	if m.opts.BaseURL != "" {
		info = " | " + m.opts.BaseURL
	}
	switch {
	case m.sysErr != nil:
		info += " | system info unavailable"
	case m.system.OS != "" || m.system.Error != "":
		info += " | " + SystemSummary(m.system)
	}
	if m.state.Busy > 0 {
		info += " " + m.spinner.View()
	}

	return s.Header.Render(title + s.Label.Render(info))
}

// cardWidth is the outer width of one card.
func (m Model) cardWidth() int {
	if m.width == 0 {
		return 48
	}
	if m.width >= twoColumnWidth {
		return m.width / 2
	}
	return m.width
}

// renderCards lays out the cards in one or two columns.
func (m Model) renderCards() string {
	w := m.cardWidth()
	cards := []string{
		m.renderStatusCard(w),
		m.renderLogCard(w),
		m.renderQueriesCard(w),
		m.renderDevicesCard(w),
		m.renderSpeedCard(w),
		m.renderSpeedHistoryCard(w),
	}

	perRow := 1
	if m.width >= twoColumnWidth {
		perRow = 2
	}

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderStatusCard(w int) string {
	s := m.styles
	status := m.state.Status
	if status == "" {
		status = s.Muted.Render("Loading...")
	}
	body := s.Label.Render("Status: ") + s.Value.Render(firstLine(status))
	if m.state.Notice != "" {
		style := s.Success
		if m.state.Err(poller.SlotTrigger) != nil {
			style = s.Error
		}
		body += "\n" + style.Render(m.state.Notice)
	}
	return s.card("🛠 System", body, w, 0)
}

func (m Model) renderLogCard(w int) string {
	s := m.styles
	body := m.state.Log
	if body == "" {
		body = s.Muted.Render("Loading...")
	}
	return s.card("📝 Update Log", body, w, textCardLines)
}

func (m Model) renderQueriesCard(w int) string {
	s := m.styles
	inner := w - 4
	stats := m.state.Stats

	queries := make([]float64, len(stats.Queries))
	var totalQ int64
	for i, p := range stats.Queries {
		queries[i] = float64(p.Queries)
		totalQ += p.Queries
	}
	blocked := make([]float64, len(stats.Blocked))
	var totalB int64
	for i, p := range stats.Blocked {
		blocked[i] = float64(p.Blocked)
		totalB += p.Blocked
	}

	lines := []string{
		s.Label.Render("Queries ") + s.Value.Render(humanize.Comma(totalQ)),
		ui.RenderSparkline(queries, inner, s.Palette.Queries),
		s.Label.Render("Blocked ") + s.Value.Render(humanize.Comma(totalB)),
		ui.RenderSparkline(blocked, inner, s.Palette.Blocked),
	}
	return s.card("📈 DNS Queries", strings.Join(lines, "\n")+m.slotError(poller.SlotStats), w, 0)
}

func (m Model) renderDevicesCard(w int) string {
	s := m.styles
	devices := m.state.Stats.Devices
	if len(devices) == 0 {
		return s.card("📱 Devices", s.Muted.Render("No device data"), w, 0)
	}
	lines := make([]string, len(devices))
	for i, d := range devices {
		lines[i] = d.String()
	}
	return s.card("📱 Devices", strings.Join(lines, "\n"), w, textCardLines)
}

func (m Model) renderSpeedCard(w int) string {
	s := m.styles
	body := m.state.SpeedTest
	if body == "" {
		body = s.Muted.Render("No speed test yet")
	}
	return s.card("⚡ Speed Test", body, w, textCardLines)
}

func (m Model) renderSpeedHistoryCard(w int) string {
	s := m.styles
	inner := w - 4
	history := m.state.SpeedHistory
	if len(history) == 0 {
		return s.card("📶 Speed History", s.Muted.Render("No history")+m.slotError(poller.SlotSpeedHistory), w, 0)
	}

	down := make([]float64, len(history))
	up := make([]float64, len(history))
	for i, sample := range history {
		down[i] = sample.Download
		up[i] = sample.Upload
	}
	last := history[len(history)-1]
	lines := []string{
		s.Label.Render("Down ") + s.Value.Render(formatMbps(last.Download)),
		ui.RenderSparkline(down, inner, s.Palette.Download),
		s.Label.Render("Up   ") + s.Value.Render(formatMbps(last.Upload)),
		ui.RenderSparkline(up, inner, s.Palette.Upload),
	}
	return s.card("📶 Speed History", strings.Join(lines, "\n")+m.slotError(poller.SlotSpeedHistory), w, 0)
}

// slotError renders the last failure of slot as a card suffix.
func (m Model) slotError(slot poller.Slot) string {
	err := m.state.Err(slot)
	if err == nil {
		return ""
	}
	return "\n" + m.styles.Error.Render(ui.SymbolFail+" "+err.Error())
}

// renderFooter renders the key hints, the flash message and data age.
func (m Model) renderFooter() string {
	s := m.styles
	hints := []string{"q quit", "? help", "u update", "s speedtest", "f fastfetch", "e reports"}
	parts := []string{strings.Join(hints, " | ")}

	if at, ok := m.state.Updated[poller.SlotStats]; ok {
		parts = append(parts, "stats "+humanize.RelTime(at, m.now(), "ago", "from now"))
	}
	if m.flash != "" {
		style := s.Success
		if m.flashErr {
			style = s.Error
		}
		parts = append(parts, style.Render(m.flash))
	}
	return s.Footer.Render(strings.Join(parts, "  "))
}

func formatMbps(v float64) string {
	return fmt.Sprintf("%.1f Mbit/s", v)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// SystemSummary renders the platform summary on one line.
func SystemSummary(info api.SystemInfo) string {
	if info.Error != "" {
		return "Error: " + info.Error
	}
	return fmt.Sprintf("%s, up %s, CPU %.0f%%, RAM %.0f%%, power %s",
		info.OS, info.Uptime, info.CPU, info.RAM, info.Power)
}
