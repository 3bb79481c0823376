package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"flow_tui/internal/config"
	"flow_tui/internal/notify"
	"flow_tui/internal/timelog"
	"flow_tui/internal/timer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type tab int

const (
	tabFlow tab = iota
	tabJournal
	tabProfile
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabFlow:
		return "Flow"
	case tabJournal:
		return "Journal"
	case tabProfile:
		return "Profile"
	}
	return ""
}

type setting int

const (
	settingNotifications setting = iota
	settingDarkTheme
	settingClock
	settingCount
)

var clockModes = []string{"auto", "24h", "12h"}

// MsgEvent wraps a timer engine event delivered to the program.
type MsgEvent struct {
	timer.Event
}

type msgEventsClosed struct{}

// MsgSaved reports the outcome of writing settings to disk.
type MsgSaved struct {
	Path string
	Err  error
}

// Options wires the core components into the model.
type Options struct {
	Config     config.Config
	ConfigPath string
	Engine     *timer.Engine
	Timeline   *timelog.Timeline
	Notifier   notify.Notifier
	Logger     *slog.Logger
	Location   *time.Location
	Now        func() time.Time
}

type Model struct {
	Config     config.Config
	ConfigPath string

	Engine   *timer.Engine
	Timeline *timelog.Timeline
	Notifier notify.Notifier

	Tab      tab
	Snapshot timer.Snapshot
	Pulse    bool

	Entries    []timelog.Entry
	Input      textinput.Model
	EntryCount int

	SettingIndex setting

	// Stats for the running process only.
	CompletedSessions int
	FocusedSeconds    int
	lastElapsed       int

	Flash string
	Err   error

	events <-chan timer.Event
	keys   keyMap
	help   help.Model
	styles styles
	loc    *time.Location
	now    func() time.Time
	log    *slog.Logger
}

func NewModel(opts Options) (*Model, error) {
	if opts.Engine == nil {
		return nil, errors.New("timer engine is required")
	}
	if opts.Timeline == nil {
		opts.Timeline = timelog.New(nil)
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	input := textinput.New()
	input.Placeholder = "Write your thought..."
	input.CharLimit = 500
	input.Width = 60

	m := &Model{
		Config:     opts.Config,
		ConfigPath: opts.ConfigPath,
		Engine:     opts.Engine,
		Timeline:   opts.Timeline,
		Notifier:   opts.Notifier,
		Snapshot:   opts.Engine.Snapshot(),
		Input:      input,
		events:     opts.Engine.Subscribe(),
		keys:       newKeyMap(),
		help:       help.New(),
		styles:     newStyles(opts.Config.DarkTheme),
		loc:        opts.Location,
		now:        opts.Now,
		log:        opts.Logger,
	}
	m.lastElapsed = m.Snapshot.Elapsed()

	if err := m.refreshEntries(); err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}

	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func waitForEvent(ch <-chan timer.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return msgEventsClosed{}
		}
		return MsgEvent{Event: ev}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgEvent:
		m.handleEvent(msg.Event)
		return m, waitForEvent(m.events)
	case msgEventsClosed:
		return m, nil
	case MsgSaved:
		if msg.Err != nil {
			m.Err = msg.Err
			m.log.Error("failed to save settings", slog.String("error", msg.Err.Error()))
		} else {
			m.Err = nil
			m.Flash = "Settings saved to " + msg.Path
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	}

	if m.Tab == tabJournal {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleEvent(ev timer.Event) {
	m.Snapshot = ev.Snapshot

	if ev.Kind == timer.EventReset {
		m.lastElapsed = 0
	} else if elapsed := ev.Snapshot.Elapsed(); elapsed > m.lastElapsed {
		m.FocusedSeconds += elapsed - m.lastElapsed
		m.lastElapsed = elapsed
	}

	switch ev.Kind {
	case timer.EventTick:
		m.Pulse = !m.Pulse
	case timer.EventCompleted:
		m.Pulse = false
		m.CompletedSessions++
		m.Notifier.Notify(notify.SessionComplete)
		m.log.Info("session complete", slog.Int("completed", m.CompletedSessions))
	default:
		m.Pulse = false
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.Flash = ""

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.setTab((m.Tab + 1) % tabCount)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.setTab((m.Tab + tabCount - 1) % tabCount)
		return m, nil
	}

	switch m.Tab {
	case tabJournal:
		return m.handleJournalInput(msg)
	case tabProfile:
		return m.handleProfileInput(msg)
	}
	return m.handleFlowInput(msg)
}

// handleGlobal covers keys shared by the tabs that do not take text input.
func (m *Model) handleGlobal(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Flow):
		m.setTab(tabFlow)
		return nil, true
	case key.Matches(msg, m.keys.Journal):
		m.setTab(tabJournal)
		return nil, true
	case key.Matches(msg, m.keys.Profile):
		m.setTab(tabProfile)
		return nil, true
	}
	return nil, false
}

func (m *Model) handleFlowInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleGlobal(msg); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.Notifier.Notify(notify.Interaction)
		m.Engine.Toggle()
		m.Snapshot = m.Engine.Snapshot()
	case key.Matches(msg, m.keys.Reset):
		m.Notifier.Notify(notify.Interaction)
		m.Engine.Reset()
		m.Snapshot = m.Engine.Snapshot()
	}
	return m, nil
}

func (m *Model) handleJournalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		m.addEntry()
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m *Model) addEntry() {
	_, ok, err := m.Timeline.Append(context.Background(), m.Input.Value())
	if err != nil {
		m.Err = err
		m.log.Error("failed to add entry", slog.String("error", err.Error()))
		return
	}
	if !ok {
		return
	}

	m.Notifier.Notify(notify.Interaction)
	m.Input.Reset()
	if err := m.refreshEntries(); err != nil {
		m.Err = err
		m.log.Error("failed to reload timeline", slog.String("error", err.Error()))
	}
}

func (m *Model) handleProfileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleGlobal(msg); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.SettingIndex > 0 {
			m.SettingIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.SettingIndex < settingCount-1 {
			m.SettingIndex++
		}
	case key.Matches(msg, m.keys.Switch):
		m.toggleSetting(m.SettingIndex)
	case key.Matches(msg, m.keys.Save):
		return m, m.saveSettings()
	}
	return m, nil
}

func (m *Model) toggleSetting(s setting) {
	switch s {
	case settingNotifications:
		m.Config.Notifications = !m.Config.Notifications
		if t, ok := m.Notifier.(notify.Toggler); ok {
			t.SetEnabled(m.Config.Notifications)
		}
	case settingDarkTheme:
		m.Config.DarkTheme = !m.Config.DarkTheme
		m.styles = newStyles(m.Config.DarkTheme)
	case settingClock:
		next := 0
		for i, mode := range clockModes {
			if mode == m.Config.Clock {
				next = (i + 1) % len(clockModes)
				break
			}
		}
		m.Config.Clock = clockModes[next]
	}
}

func (m *Model) saveSettings() tea.Cmd {
	path := m.ConfigPath
	settings := m.Config.Settings()
	return func() tea.Msg {
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return MsgSaved{Err: err}
			}
			path = p
		}
		return MsgSaved{Path: path, Err: config.SaveSettings(path, settings)}
	}
}

func (m *Model) setTab(t tab) {
	m.Tab = t
	if t == tabJournal {
		m.Input.Focus()
		return
	}
	m.Input.Blur()
}

func (m *Model) refreshEntries() error {
	ctx := context.Background()

	entries, err := m.Timeline.ListAll(ctx)
	if err != nil {
		return err
	}
	m.Entries = entries
	m.EntryCount = len(entries)
	return nil
}

// Close releases the engine and the timeline store.
func (m *Model) Close() error {
	m.Engine.Close()
	return m.Timeline.Close()
}
