package timer

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultSessionSeconds is the length of a focus session when none is configured.
const DefaultSessionSeconds = 25 * 60

const subscriberBuffer = 64

type Status int

const (
	Idle Status = iota
	Running
	Completed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Snapshot is a copy of the engine state at one instant.
type Snapshot struct {
	Remaining int
	Length    int
	Status    Status
}

// Paused reports whether an idle session has already been partly run down.
func (s Snapshot) Paused() bool {
	return s.Status == Idle && s.Remaining < s.Length
}

// Elapsed returns the seconds already counted down in this session.
func (s Snapshot) Elapsed() int {
	return s.Length - s.Remaining
}

type EventKind int

const (
	EventStarted EventKind = iota
	EventPaused
	EventReset
	EventTick
	EventCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventPaused:
		return "paused"
	case EventReset:
		return "reset"
	case EventTick:
		return "tick"
	case EventCompleted:
		return "completed"
	}
	return "unknown"
}

// Event is published to subscribers after every state change.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
}

type Option func(*Engine)

// WithTickSource arms src while the engine is running. Without one the engine
// only advances through Tick.
func WithTickSource(src TickSource) Option {
	return func(e *Engine) { e.source = src }
}

func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine counts a single focus session down to zero, one second per tick.
type Engine struct {
	mu         sync.Mutex
	length     int
	remaining  int
	status     Status
	source     TickSource
	interval   time.Duration
	armed      Stopper
	generation uint64

	subscribers []chan Event
	dropped     int64
	closed      bool

	log *slog.Logger
}

func New(lengthSeconds int, opts ...Option) *Engine {
	if lengthSeconds <= 0 {
		lengthSeconds = DefaultSessionSeconds
	}

	e := &Engine{
		length:    lengthSeconds,
		remaining: lengthSeconds,
		status:    Idle,
		interval:  time.Second,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.start()
}

func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pause()
}

// Toggle pauses a running session and starts any other.
func (e *Engine) Toggle() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == Running {
		e.pause()
		return
	}
	e.start()
}

// Reset returns the session to Idle with the full length remaining and
// cancels any armed ticks.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.disarm()
	e.remaining = e.length
	e.status = Idle
	e.log.Debug("timer reset", slog.Int("remaining", e.remaining))
	e.publish(EventReset)
}

// Tick advances a running session by one second. Ticks outside Running are ignored.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance()
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Subscribe returns a buffered channel of engine events. Completion events are
// always delivered; other events are dropped when the subscriber falls behind.
func (e *Engine) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		close(ch)
		return ch
	}
	e.subscribers = append(e.subscribers, ch)
	return ch
}

// Dropped returns the number of events dropped for slow subscribers.
func (e *Engine) Dropped() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropped
}

// Close disarms the engine and closes every subscription. Later commands are no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.disarm()
	e.closed = true
	for _, ch := range e.subscribers {
		close(ch)
	}
	e.subscribers = nil
}

func (e *Engine) start() {
	if e.closed || e.status != Idle {
		return
	}

	e.status = Running
	e.arm()
	e.log.Debug("timer started", slog.Int("remaining", e.remaining))
	e.publish(EventStarted)
}

func (e *Engine) pause() {
	if e.closed || e.status != Running {
		return
	}

	e.disarm()
	e.status = Idle
	e.log.Debug("timer paused", slog.Int("remaining", e.remaining))
	e.publish(EventPaused)
}

func (e *Engine) advance() {
	if e.closed || e.status != Running || e.remaining == 0 {
		return
	}

	e.remaining--
	if e.remaining > 0 {
		e.publish(EventTick)
		return
	}

	e.disarm()
	e.status = Completed
	e.log.Info("focus session completed", slog.Int("length", e.length))
	e.publish(EventCompleted)
}

// arm subscribes to the tick source under a fresh generation so callbacks
// from an earlier subscription can be told apart.
func (e *Engine) arm() {
	e.generation++
	if e.source == nil {
		return
	}

	gen := e.generation
	e.armed = e.source.Every(e.interval, func() { e.tickFrom(gen) })
}

func (e *Engine) disarm() {
	e.generation++
	if e.armed != nil {
		e.armed.Stop()
		e.armed = nil
	}
}

func (e *Engine) tickFrom(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		return
	}
	e.advance()
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{
		Remaining: e.remaining,
		Length:    e.length,
		Status:    e.status,
	}
}

func (e *Engine) publish(kind EventKind) {
	ev := Event{Kind: kind, Snapshot: e.snapshot()}

	for _, ch := range e.subscribers {
		if kind == EventCompleted {
			e.deliverEvicting(ch, ev)
			continue
		}
		select {
		case ch <- ev:
		default:
			e.dropped++
		}
	}
}

// deliverEvicting makes room by discarding the oldest buffered event.
// Only the engine sends, and it holds e.mu, so the loop terminates.
func (e *Engine) deliverEvicting(ch chan Event, ev Event) {
	for {
		select {
		case ch <- ev:
			return
		default:
		}
		select {
		case <-ch:
			e.dropped++
		default:
		}
	}
}
