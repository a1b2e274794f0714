package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestRegistry(t *testing.T, rec Persister, clk *fakeClock, sched *manualScheduler) *Registry {
	t.Helper()
	r := NewRegistry(RegistryOptions{
		Config:      Config{CompletionThreshold: 80, SaveInterval: 15 * time.Second},
		IdleTimeout: time.Minute,
		Persister:   rec,
		Clock:       clk,
		Scheduler:   sched,
		Logger:      testLogger(t),
	})
	t.Cleanup(r.Close)
	return r
}

func TestRegistryHeartbeatAndTicksShareSession(t *testing.T) {
	rec := &recordingPersister{}
	clk := newFakeClock()
	sched := &manualScheduler{}
	r := newTestRegistry(t, rec, clk, sched)
	ctx := context.Background()
	userID, contentID := uuid.New(), uuid.New()

	if _, err := r.Start(ctx, userID, contentID, 0, 300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := r.Start(ctx, userID, contentID, 0, 300); err != nil {
		t.Fatalf("Start again: %v", err)
	}
	if r.Active() != 1 || sched.Live() != 1 {
		t.Fatalf("duplicate start: active=%d timers=%d", r.Active(), sched.Live())
	}

	st, err := r.Heartbeat(ctx, userID, contentID, 20, 300)
	if err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if !st.Persisted || st.Percentage != 7 {
		t.Fatalf("Heartbeat state: persisted=%v pct=%d", st.Persisted, st.Percentage)
	}

	// Timer tick at the same position is inside the window.
	sched.Fire()
	if n := len(rec.Records()); n != 1 {
		t.Fatalf("persist count: want=1 got=%d", n)
	}

	st, err = r.Heartbeat(ctx, userID, contentID, 250, 300)
	if err != nil || !st.Persisted {
		t.Fatalf("Heartbeat completion: err=%v persisted=%v", err, st.Persisted)
	}
	last := rec.Records()[len(rec.Records())-1]
	if !last.Completed {
		t.Fatalf("expected completed record at 83%%")
	}
}

func TestRegistryEndedAlwaysHundred(t *testing.T) {
	rec := &recordingPersister{}
	r := newTestRegistry(t, rec, newFakeClock(), &manualScheduler{})
	ctx := context.Background()
	userID, contentID := uuid.New(), uuid.New()

	if _, err := r.Heartbeat(ctx, userID, contentID, 120, 300); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	st, err := r.Ended(ctx, userID, contentID, 300)
	if err != nil {
		t.Fatalf("Ended: %v", err)
	}
	if st.Percentage != 100 || st.Sampling {
		t.Fatalf("Ended state: pct=%d sampling=%v", st.Percentage, st.Sampling)
	}
	last := rec.Records()[len(rec.Records())-1]
	if last.Percentage != 100 || !last.Completed {
		t.Fatalf("Ended record: pct=%d completed=%v", last.Percentage, last.Completed)
	}
	if r.Active() != 0 {
		t.Fatalf("session should be closed after Ended")
	}

	// No session at all still yields a completed record.
	if _, err := r.Ended(ctx, uuid.New(), uuid.New(), 0); err != nil {
		t.Fatalf("Ended without session: %v", err)
	}
	last = rec.Records()[len(rec.Records())-1]
	if last.Percentage != 100 || !last.Completed {
		t.Fatalf("Ended without session record: pct=%d completed=%v", last.Percentage, last.Completed)
	}
}

func TestRegistrySweepStopsIdleSessions(t *testing.T) {
	rec := &recordingPersister{}
	clk := newFakeClock()
	sched := &manualScheduler{}
	r := newTestRegistry(t, rec, clk, sched)
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	content := uuid.New()
	if _, err := r.Start(ctx, a, content, 0, 100); err != nil {
		t.Fatalf("Start a: %v", err)
	}
	clk.Advance(45 * time.Second)
	if _, err := r.Start(ctx, b, content, 0, 100); err != nil {
		t.Fatalf("Start b: %v", err)
	}
	clk.Advance(30 * time.Second)

	if n := r.Sweep(clk.Now()); n != 1 {
		t.Fatalf("Sweep: want=1 got=%d", n)
	}
	if r.Active() != 1 || sched.Live() != 1 {
		t.Fatalf("after sweep: active=%d timers=%d", r.Active(), sched.Live())
	}
}

func TestRegistryStopAndClose(t *testing.T) {
	rec := &recordingPersister{}
	sched := &manualScheduler{}
	r := newTestRegistry(t, rec, newFakeClock(), sched)
	ctx := context.Background()
	userID, contentID := uuid.New(), uuid.New()

	if _, err := r.Start(ctx, userID, contentID, 0, 100); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Stop(userID, contentID)
	r.Stop(userID, contentID)
	if sched.Live() != 0 {
		t.Fatalf("timer still live after Stop")
	}

	r.Close()
	r.Close()
	if _, err := r.Start(ctx, userID, contentID, 0, 100); !errors.Is(err, ErrStopped) {
		t.Fatalf("Start after Close: want ErrStopped got %v", err)
	}
	if _, err := r.Ended(ctx, userID, contentID, 100); !errors.Is(err, ErrStopped) {
		t.Fatalf("Ended after Close: want ErrStopped got %v", err)
	}
}

func TestRegistrySweepReportsCounts(t *testing.T) {
	clk := newFakeClock()
	var swept, active int
	r := NewRegistry(RegistryOptions{
		IdleTimeout: time.Minute,
		Persister:   &recordingPersister{},
		Clock:       clk,
		Scheduler:   &manualScheduler{},
		Logger:      testLogger(t),
		OnSweep:     func(s, a int) { swept, active = s, a },
	})
	t.Cleanup(r.Close)

	ctx := context.Background()
	if _, err := r.Start(ctx, uuid.New(), uuid.New(), 0, 100); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clk.Advance(2 * time.Minute)
	if _, err := r.Start(ctx, uuid.New(), uuid.New(), 0, 100); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Sweep(clk.Now())
	if swept != 1 || active != 1 {
		t.Fatalf("OnSweep: want=(1,1) got=(%d,%d)", swept, active)
	}
}
