package timelog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a single note on the timeline. Entries are never mutated after creation.
type Entry struct {
	ID        string
	Text      string
	CreatedAt time.Time
}

// Store holds timeline entries. List returns newest first.
type Store interface {
	Insert(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

type Option func(*Timeline)

// WithClock replaces the wall clock used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(t *Timeline) {
		if now != nil {
			t.now = now
		}
	}
}

// Timeline is an append-only, newest-first log of notes.
type Timeline struct {
	mu     sync.Mutex
	store  Store
	now    func() time.Time
	latest time.Time
}

func New(store Store, opts ...Option) *Timeline {
	if store == nil {
		store = NewMemoryStore()
	}

	t := &Timeline{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Append trims raw and stores it as a new entry at the front of the timeline.
// Blank input is ignored and reported with ok == false.
func (t *Timeline) Append(ctx context.Context, raw string) (Entry, bool, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Entry{}, false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	createdAt := t.now()
	if createdAt.Before(t.latest) {
		createdAt = t.latest
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Entry{}, false, fmt.Errorf("generate entry id: %w", err)
	}

	e := Entry{
		ID:        id.String(),
		Text:      text,
		CreatedAt: createdAt,
	}
	if err := t.store.Insert(ctx, e); err != nil {
		return Entry{}, false, fmt.Errorf("insert entry: %w", err)
	}
	t.latest = createdAt

	return e, true, nil
}

// ListAll returns every entry, newest first.
func (t *Timeline) ListAll(ctx context.Context) ([]Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries, err := t.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func (t *Timeline) Len(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, err := t.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func (t *Timeline) Close() error {
	return t.store.Close()
}

// memoryStore appends in insertion order and reverses on read, which keeps
// inserts O(1).
type memoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) Insert(_ context.Context, e Entry) error {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[len(m.entries)-1-i] = e
	}
	return out, nil
}

func (m *memoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *memoryStore) Close() error {
	return nil
}
