package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// manualScheduler fires callbacks only when the test says so.
type manualScheduler struct {
	mu      sync.Mutex
	entries []*manualEntry
}

type manualEntry struct {
	fn      func()
	stopped bool
}

func (m *manualScheduler) Every(_ time.Duration, fn func()) StopFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &manualEntry{fn: fn}
	m.entries = append(m.entries, e)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		e.stopped = true
	}
}

func (m *manualScheduler) Fire() {
	m.mu.Lock()
	var live []func()
	for _, e := range m.entries {
		if !e.stopped {
			live = append(live, e.fn)
		}
	}
	m.mu.Unlock()
	for _, fn := range live {
		fn()
	}
}

func (m *manualScheduler) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if !e.stopped {
			n++
		}
	}
	return n
}

type recordingPersister struct {
	mu      sync.Mutex
	records []Record
	fail    error
}

func (p *recordingPersister) Persist(_ context.Context, rec Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.records = append(p.records, rec)
	return nil
}

func (p *recordingPersister) Records() []Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Record(nil), p.records...)
}

var errPersist = errors.New("persist failed")

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}
