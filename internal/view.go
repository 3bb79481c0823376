package internal

import (
	"fmt"
	"strings"

	"flow_tui/internal/timefmt"
	"flow_tui/internal/timer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

const (
	viewWidth      = 80
	maxListEntries = 12
)

type palette struct {
	background lipgloss.Color
	surface    lipgloss.Color
	text       lipgloss.Color
	muted      lipgloss.Color
	accent     lipgloss.Color
	danger     lipgloss.Color
}

var (
	darkPalette = palette{
		background: lipgloss.Color("#0F172A"),
		surface:    lipgloss.Color("#1E293B"),
		text:       lipgloss.Color("#F8FAFC"),
		muted:      lipgloss.Color("#94A3B8"),
		accent:     lipgloss.Color("#38BDF8"),
		danger:     lipgloss.Color("#EF4444"),
	}
	lightPalette = palette{
		background: lipgloss.Color("#F8FAFC"),
		surface:    lipgloss.Color("#E2E8F0"),
		text:       lipgloss.Color("#0F172A"),
		muted:      lipgloss.Color("#475569"),
		accent:     lipgloss.Color("#0284C7"),
		danger:     lipgloss.Color("#DC2626"),
	}
)

type styles struct {
	title       lipgloss.Style
	tab         lipgloss.Style
	tabActive   lipgloss.Style
	status      lipgloss.Style
	timer       lipgloss.Style
	timerActive lipgloss.Style
	pulse       lipgloss.Style
	pulseDim    lipgloss.Style
	muted       lipgloss.Style
	entryTime   lipgloss.Style
	entryText   lipgloss.Style
	dot         lipgloss.Style
	card        lipgloss.Style
	statNumber  lipgloss.Style
	selected    lipgloss.Style
	on          lipgloss.Style
	off         lipgloss.Style
	errText     lipgloss.Style
	box         lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	return styles{
		title: lipgloss.NewStyle().
			Foreground(p.text).
			Bold(true),
		tab: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),
		tabActive: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true).
			Underline(true).
			Padding(0, 2),
		status: lipgloss.NewStyle().
			Foreground(p.muted).
			Bold(true),
		timer: lipgloss.NewStyle().
			Foreground(p.text).
			Bold(true).
			Padding(1, 4),
		timerActive: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true).
			Padding(1, 4),
		pulse: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent),
		pulseDim: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.surface),
		muted: lipgloss.NewStyle().
			Foreground(p.muted),
		entryTime: lipgloss.NewStyle().
			Foreground(p.muted).
			Bold(true),
		entryText: lipgloss.NewStyle().
			Foreground(p.text),
		dot: lipgloss.NewStyle().
			Foreground(p.accent),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.surface).
			Padding(0, 2),
		statNumber: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		selected: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		on: lipgloss.NewStyle().
			Foreground(p.accent),
		off: lipgloss.NewStyle().
			Foreground(p.muted),
		errText: lipgloss.NewStyle().
			Foreground(p.danger),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.surface).
			Padding(0, 1),
	}
}

func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.tabBar())
	sb.WriteString("\n\n")

	switch m.Tab {
	case tabJournal:
		sb.WriteString(m.journalView())
	case tabProfile:
		sb.WriteString(m.profileView())
	default:
		sb.WriteString(m.flowView())
	}

	sb.WriteString("\n\n")
	if m.Err != nil {
		sb.WriteString(m.styles.errText.Render("Error: " + m.Err.Error()))
		sb.WriteString("\n")
	} else if m.Flash != "" {
		sb.WriteString(m.styles.muted.Render(m.Flash))
		sb.WriteString("\n")
	}
	sb.WriteString(m.helpView())

	return sb.String()
}

func (m *Model) tabBar() string {
	tabs := make([]string, 0, tabCount)
	for t := tabFlow; t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.Tab {
			tabs = append(tabs, m.styles.tabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.tab.Render(label))
		}
	}
	return lipgloss.PlaceHorizontal(viewWidth, lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m *Model) helpView() string {
	var km help.KeyMap
	switch m.Tab {
	case tabJournal:
		km = journalKeys{m.keys}
	case tabProfile:
		km = profileKeys{m.keys}
	default:
		km = flowKeys{m.keys}
	}
	return m.help.View(km)
}

func statusLabel(s timer.Snapshot) string {
	switch {
	case s.Status == timer.Running:
		return "FOCUSING..."
	case s.Status == timer.Completed:
		return "SESSION COMPLETE"
	case s.Paused():
		return "PAUSED"
	}
	return "READY TO FLOW"
}

func (m *Model) flowView() string {
	s := m.Snapshot

	timerStyle := m.styles.timer
	if s.Status == timer.Running {
		timerStyle = m.styles.timerActive
	}
	clock := timerStyle.Render(timefmt.FormatTime(s.Remaining))

	ring := m.styles.pulseDim
	if s.Status == timer.Running && m.Pulse {
		ring = m.styles.pulse
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.status.Render(statusLabel(s)),
		"",
		ring.Render(clock),
		"",
		m.styles.muted.Render(fmt.Sprintf("Session: %s", timefmt.FormatTime(s.Length))),
	)

	return lipgloss.PlaceHorizontal(viewWidth, lipgloss.Center, body)
}

func (m *Model) journalView() string {
	var sb strings.Builder

	sb.WriteString(m.styles.title.Render("Daily Log"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.muted.Render(strings.ToUpper(timefmt.DateHeading(m.now().In(m.loc)))))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.box.Width(viewWidth - 4).Render(m.Input.View()))
	sb.WriteString("\n\n")

	if len(m.Entries) == 0 {
		empty := lipgloss.JoinVertical(lipgloss.Center,
			m.styles.title.Render("Your mind is clear."),
			m.styles.muted.Render("Capture a thought to begin."),
		)
		sb.WriteString(lipgloss.PlaceHorizontal(viewWidth, lipgloss.Center, empty))
		return sb.String()
	}

	cycle := m.Config.HourCycle()
	shown := m.Entries
	if len(shown) > maxListEntries {
		shown = shown[:maxListEntries]
	}
	for i, e := range shown {
		sb.WriteString(m.styles.dot.Render("●"))
		sb.WriteString(" ")
		sb.WriteString(m.styles.entryTime.Render(timefmt.EntryTime(e.CreatedAt, m.loc, cycle)))
		sb.WriteString("\n")
		sb.WriteString(m.styles.muted.Render("│"))
		sb.WriteString(" ")
		sb.WriteString(m.styles.entryText.Render(e.Text))
		if i < len(shown)-1 {
			sb.WriteString("\n")
		}
	}
	if hidden := len(m.Entries) - len(shown); hidden > 0 {
		sb.WriteString("\n")
		sb.WriteString(m.styles.muted.Render(fmt.Sprintf("… %d earlier", hidden)))
	}

	return sb.String()
}

func (m *Model) profileView() string {
	var sb strings.Builder

	sb.WriteString(m.styles.title.Render("Profile"))
	sb.WriteString("\n\n")

	stat := func(value, label string) string {
		return lipgloss.JoinVertical(lipgloss.Center,
			m.styles.statNumber.Render(value),
			m.styles.muted.Render(label),
		)
	}
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		stat(fmt.Sprintf("%d", m.CompletedSessions), "Sessions"),
		"    ",
		stat(fmt.Sprintf("%d", m.FocusedSeconds/60), "Minutes Focused"),
		"    ",
		stat(fmt.Sprintf("%d", m.EntryCount), "Journal Entries"),
	)
	sb.WriteString(m.styles.card.Render(stats))
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.selected.Render("Preferences"))
	sb.WriteString("\n")
	for s := settingNotifications; s < settingCount; s++ {
		sb.WriteString(m.settingLine(s))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m *Model) settingLine(s setting) string {
	var name, value string
	on := false
	switch s {
	case settingNotifications:
		name, on = "Notifications", m.Config.Notifications
	case settingDarkTheme:
		name, on = "Dark Theme", m.Config.DarkTheme
	case settingClock:
		name, value = "Clock", m.Config.Clock
	}

	if value == "" {
		if on {
			value = m.styles.on.Render("[on] ")
		} else {
			value = m.styles.off.Render("[off]")
		}
	} else {
		value = m.styles.on.Render(value)
	}

	marker := "  "
	label := fmt.Sprintf("%-16s", name)
	if s == m.SettingIndex {
		marker = "→ "
		label = m.styles.selected.Render(label)
	}
	return marker + label + value
}
