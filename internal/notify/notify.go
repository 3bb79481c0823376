// Package notify carries feedback for completed sessions and user actions.
package notify

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

type Kind int

const (
	// SessionComplete is raised once per focus session that reaches zero.
	SessionComplete Kind = iota
	// Interaction is raised on user commands such as toggle or reset.
	Interaction
)

func (k Kind) String() string {
	switch k {
	case SessionComplete:
		return "session_complete"
	case Interaction:
		return "interaction"
	}
	return "unknown"
}

type Notifier interface {
	Notify(kind Kind)
}

// Toggler is implemented by notifiers that can be muted at runtime.
type Toggler interface {
	SetEnabled(enabled bool)
}

// Bell rings the terminal bell on completion. Interactions are silent.
type Bell struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
	log     *slog.Logger
}

func NewBell(w io.Writer, enabled bool, log *slog.Logger) *Bell {
	if w == nil {
		w = io.Discard
	}
	if log == nil {
		log = slog.Default()
	}
	return &Bell{w: w, enabled: enabled, log: log}
}

func (b *Bell) SetEnabled(enabled bool) {
	b.mu.Lock()
	b.enabled = enabled
	b.mu.Unlock()
}

func (b *Bell) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

func (b *Bell) Notify(kind Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.enabled || kind != SessionComplete {
		return
	}
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		b.log.Warn("ring bell", slog.String("error", err.Error()))
	}
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(Kind) {}

// Terminal serializes writes to a terminal shared by the UI renderer and the
// bell. Each Write lands whole, so a bell byte can only fall between frames.
// The embedded file keeps Fd and Read available for tty detection.
type Terminal struct {
	*os.File
	mu sync.Mutex
}

func NewTerminal(f *os.File) *Terminal {
	return &Terminal{File: f}
}

func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.File.Write(p)
}

func (t *Terminal) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}
