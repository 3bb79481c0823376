package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"flow_tui/internal"
	"flow_tui/internal/config"
	"flow_tui/internal/notify"
	"flow_tui/internal/timelog"
	"flow_tui/internal/timer"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	store, err := newStore(cmd.Context(), cfg.Timeline.Backend)
	if err != nil {
		return err
	}

	engine := timer.New(cfg.SessionSeconds,
		timer.WithTickSource(timer.SystemTicks{}),
		timer.WithLogger(logger),
	)

	term := notify.NewTerminal(os.Stdout)

	m, err := internal.NewModel(internal.Options{
		Config:     cfg,
		ConfigPath: configPath(),
		Engine:     engine,
		Timeline:   timelog.New(store),
		Notifier:   notify.NewBell(term, cfg.Notifications, logger),
		Logger:     logger,
	})
	if err != nil {
		engine.Close()
		store.Close()
		return err
	}
	defer m.Close()

	logger.Info("starting flow",
		slog.Int("session_seconds", cfg.SessionSeconds),
		slog.String("backend", cfg.Timeline.Backend),
		slog.String("clock", cfg.HourCycle().String()),
	)

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithOutput(term),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func newStore(ctx context.Context, backend string) (timelog.Store, error) {
	switch backend {
	case config.BackendSQLite:
		s, err := timelog.NewSQLiteStore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to open timeline store: %w", err)
		}
		return s, nil
	default:
		return timelog.NewMemoryStore(), nil
	}
}

// newLogger builds a text logger. The terminal belongs to the TUI, so logs go
// to the configured file or nowhere.
func newLogger(lc config.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(lc.Level))); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if lc.File != "" {
		f, err := tea.LogToFile(lc.File, "flow")
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeFn, nil
}
