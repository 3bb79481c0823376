package timer

import (
	"sync"
	"time"
)

// Stopper disarms a tick subscription. Stop must be safe to call more than once.
type Stopper interface {
	Stop()
}

// TickSource delivers fn once per interval until the returned Stopper is stopped.
type TickSource interface {
	Every(interval time.Duration, fn func()) Stopper
}

// SystemTicks drives subscriptions from a time.Ticker per subscription.
type SystemTicks struct{}

func (SystemTicks) Every(interval time.Duration, fn func()) Stopper {
	sub := &systemSub{stopChan: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-sub.stopChan:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	return sub
}

type systemSub struct {
	once     sync.Once
	stopChan chan struct{}
}

func (s *systemSub) Stop() {
	s.once.Do(func() { close(s.stopChan) })
}

// ManualTicks is a TickSource that only ticks when Fire is called.
type ManualTicks struct {
	mu   sync.Mutex
	subs []*manualSub
}

type manualSub struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
}

func (s *manualSub) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

func (s *manualSub) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped
}

func (m *ManualTicks) Every(_ time.Duration, fn func()) Stopper {
	sub := &manualSub{fn: fn}
	m.mu.Lock()
	m.subs = append(m.subs, sub)
	m.mu.Unlock()
	return sub
}

// Fire delivers one tick to every armed subscription.
func (m *ManualTicks) Fire() {
	m.mu.Lock()
	subs := make([]*manualSub, 0, len(m.subs))
	kept := m.subs[:0]
	for _, s := range m.subs {
		if s.active() {
			subs = append(subs, s)
			kept = append(kept, s)
		}
	}
	m.subs = kept
	m.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
}

// FireN calls Fire n times.
func (m *ManualTicks) FireN(n int) {
	for i := 0; i < n; i++ {
		m.Fire()
	}
}

// Armed reports how many subscriptions are currently armed.
func (m *ManualTicks) Armed() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, s := range m.subs {
		if s.active() {
			n++
		}
	}
	return n
}
