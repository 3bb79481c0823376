package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManual(t *testing.T, length int) (*Engine, *ManualTicks) {
	t.Helper()
	ticks := &ManualTicks{}
	e := New(length, WithTickSource(ticks))
	t.Cleanup(e.Close)
	return e, ticks
}

func drain(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewDefaults(t *testing.T) {
	e := New(0)
	snap := e.Snapshot()
	assert.Equal(t, DefaultSessionSeconds, snap.Length)
	assert.Equal(t, DefaultSessionSeconds, snap.Remaining)
	assert.Equal(t, Idle, snap.Status)
	assert.False(t, snap.Paused())
}

func TestRunToCompletion(t *testing.T) {
	e, ticks := newManual(t, DefaultSessionSeconds)
	events := e.Subscribe()

	e.Start()
	require.Equal(t, 1, ticks.Armed())

	ticks.FireN(DefaultSessionSeconds)

	snap := e.Snapshot()
	assert.Equal(t, 0, snap.Remaining)
	assert.Equal(t, Completed, snap.Status)
	assert.Equal(t, 0, ticks.Armed(), "completion must disarm the tick source")

	// A late tick at the boundary is ignored.
	e.Tick()
	ticks.Fire()

	got := drain(events)
	assert.Equal(t, 1, countKind(got, EventCompleted))
	assert.Equal(t, EventCompleted, got[len(got)-1].Kind)
	assert.Equal(t, 0, e.Snapshot().Remaining)
}

func TestCompletionFiresAgainAfterReset(t *testing.T) {
	e, ticks := newManual(t, 3)
	events := e.Subscribe()

	e.Start()
	ticks.FireN(3)
	e.Reset()
	e.Start()
	ticks.FireN(5)

	got := drain(events)
	assert.Equal(t, 2, countKind(got, EventCompleted))
}

func TestPauseResumeKeepsRemaining(t *testing.T) {
	e, ticks := newManual(t, 60)

	e.Start()
	ticks.FireN(10)
	e.Pause()

	snap := e.Snapshot()
	require.Equal(t, Idle, snap.Status)
	require.Equal(t, 50, snap.Remaining)
	assert.True(t, snap.Paused())
	assert.Equal(t, 0, ticks.Armed())

	ticks.FireN(5)
	assert.Equal(t, 50, e.Snapshot().Remaining, "ticks while paused are ignored")

	e.Start()
	ticks.FireN(5)
	assert.Equal(t, 45, e.Snapshot().Remaining)
}

func TestResetFromEveryState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Engine, ticks *ManualTicks)
	}{
		{name: "idle", setup: func(*Engine, *ManualTicks) {}},
		{name: "running", setup: func(e *Engine, ticks *ManualTicks) {
			e.Start()
			ticks.FireN(3)
		}},
		{name: "paused", setup: func(e *Engine, ticks *ManualTicks) {
			e.Start()
			ticks.FireN(3)
			e.Pause()
		}},
		{name: "completed", setup: func(e *Engine, ticks *ManualTicks) {
			e.Start()
			ticks.FireN(10)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ticks := newManual(t, 10)
			tt.setup(e, ticks)

			e.Reset()

			snap := e.Snapshot()
			assert.Equal(t, Snapshot{Remaining: 10, Length: 10, Status: Idle}, snap)
			assert.Equal(t, 0, ticks.Armed())

			ticks.Fire()
			assert.Equal(t, 10, e.Snapshot().Remaining)
		})
	}
}

func TestStartAndPauseAreIdempotent(t *testing.T) {
	e, ticks := newManual(t, 30)

	e.Start()
	e.Start()
	assert.Equal(t, 1, ticks.Armed())

	ticks.Fire()
	assert.Equal(t, 29, e.Snapshot().Remaining, "a double start must not double-tick")

	e.Pause()
	e.Pause()
	assert.Equal(t, Idle, e.Snapshot().Status)
	assert.Equal(t, 29, e.Snapshot().Remaining)
}

func TestStartIgnoredWhenCompleted(t *testing.T) {
	e, ticks := newManual(t, 2)
	e.Start()
	ticks.FireN(2)

	e.Start()
	e.Toggle()
	assert.Equal(t, Completed, e.Snapshot().Status)
	assert.Equal(t, 0, ticks.Armed())
}

func TestToggle(t *testing.T) {
	e, ticks := newManual(t, 30)

	e.Toggle()
	assert.Equal(t, Running, e.Snapshot().Status)
	ticks.FireN(4)

	e.Toggle()
	assert.Equal(t, Idle, e.Snapshot().Status)
	assert.Equal(t, 26, e.Snapshot().Remaining)
}

func TestTickIgnoredWhenIdle(t *testing.T) {
	e := New(5)
	e.Tick()
	assert.Equal(t, 5, e.Snapshot().Remaining)

	e.Start()
	for i := 0; i < 8; i++ {
		e.Tick()
	}
	snap := e.Snapshot()
	assert.Equal(t, 0, snap.Remaining)
	assert.Equal(t, Completed, snap.Status)
}

// recordingTicks keeps every callback it was ever handed, stopped or not.
type recordingTicks struct {
	mu  sync.Mutex
	fns []func()
}

func (r *recordingTicks) Every(_ time.Duration, fn func()) Stopper {
	r.mu.Lock()
	r.fns = append(r.fns, fn)
	r.mu.Unlock()
	return stopFunc(func() {})
}

type stopFunc func()

func (f stopFunc) Stop() { f() }

func TestStaleTickAfterResetIsIgnored(t *testing.T) {
	src := &recordingTicks{}
	e := New(10, WithTickSource(src))
	defer e.Close()

	e.Start()
	src.fns[0]()
	require.Equal(t, 9, e.Snapshot().Remaining)

	e.Reset()
	e.Start()
	require.Len(t, src.fns, 2)

	// The first session's callback arrives late.
	src.fns[0]()
	assert.Equal(t, 10, e.Snapshot().Remaining)

	src.fns[1]()
	assert.Equal(t, 9, e.Snapshot().Remaining)
}

func TestConcurrentTicksAreSerialized(t *testing.T) {
	e := New(1000)
	e.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				e.Tick()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, e.Snapshot().Remaining)
}

func TestSlowSubscriberStillGetsCompletion(t *testing.T) {
	e, ticks := newManual(t, subscriberBuffer*3)
	events := e.Subscribe()

	e.Start()
	ticks.FireN(subscriberBuffer * 3)

	got := drain(events)
	assert.Len(t, got, subscriberBuffer)
	assert.Equal(t, EventCompleted, got[len(got)-1].Kind)
	assert.Positive(t, e.Dropped())
}

func TestCloseClosesSubscriptions(t *testing.T) {
	e, ticks := newManual(t, 10)
	events := e.Subscribe()
	e.Start()

	e.Close()
	assert.Equal(t, 0, ticks.Armed())

	drain(events)
	_, ok := <-events
	assert.False(t, ok)

	_, ok = <-e.Subscribe()
	assert.False(t, ok)
}

func TestCommandsAfterCloseAreNoOps(t *testing.T) {
	e := New(10)
	e.Start()
	e.Tick()
	e.Close()

	want := Snapshot{Remaining: 9, Length: 10, Status: Running}

	e.Tick()
	e.Tick()
	assert.Equal(t, want, e.Snapshot())

	e.Toggle()
	assert.Equal(t, want, e.Snapshot())

	e.Pause()
	assert.Equal(t, want, e.Snapshot())

	e.Reset()
	assert.Equal(t, want, e.Snapshot())

	e.Start()
	assert.Equal(t, want, e.Snapshot())
}

func TestSystemTicksDrivesEngine(t *testing.T) {
	e := New(3, WithTickSource(SystemTicks{}), WithInterval(5*time.Millisecond))
	defer e.Close()
	events := e.Subscribe()

	e.Start()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Kind == EventCompleted {
				assert.Equal(t, 0, ev.Snapshot.Remaining)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for completion")
		}
	}
}
