package tracking

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

type player struct {
	position float64
	duration float64
}

func newTestSampler(t *testing.T, p *player, persist Persister, sched Scheduler) *Sampler {
	t.Helper()
	return NewSampler(SamplerOptions{
		UserID:    uuid.New(),
		ContentID: uuid.New(),
		Position:  func() float64 { return p.position },
		Duration:  func() float64 { return p.duration },
		Config:    Config{CompletionThreshold: 80, SaveInterval: 15 * time.Second},
		Persister: persist,
		Clock:     newFakeClock(),
		Scheduler: sched,
		Logger:    testLogger(t),
	})
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		pos, dur float64
		want     int
	}{
		{0, 100, 0},
		{50, 100, 50},
		{79.4, 100, 79},
		{79.5, 100, 80},
		{150, 100, 100},
		{-5, 100, 0},
		{10, 0, 0},
	}
	for _, tc := range cases {
		if got := Percentage(tc.pos, tc.dur); got != tc.want {
			t.Fatalf("Percentage(%v, %v): want=%d got=%d", tc.pos, tc.dur, tc.want, got)
		}
	}
}

func TestTicksPersistOnlyOutsideSaveWindow(t *testing.T) {
	p := &player{duration: 600}
	rec := &recordingPersister{}
	sched := &manualScheduler{}
	s := newTestSampler(t, p, rec, sched)
	s.Start(context.Background())

	positions := []float64{0, 5, 14, 15, 20, 29.9, 31, 31, 60, 61, 200}
	lastPersisted := 0.0
	for _, pos := range positions {
		p.position = pos
		before := len(rec.Records())
		sched.Fire()
		after := len(rec.Records())
		if after-before > 1 {
			t.Fatalf("more than one persistence call in a tick at pos=%v", pos)
		}
		completed := Percentage(pos, p.duration) >= 80
		if after > before {
			if math.Abs(pos-lastPersisted) < 15 && !completed {
				t.Fatalf("persisted inside save window: pos=%v last=%v", pos, lastPersisted)
			}
			lastPersisted = pos
		} else if math.Abs(pos-lastPersisted) >= 15 {
			t.Fatalf("expected persistence at pos=%v last=%v", pos, lastPersisted)
		}
	}
	if n := len(rec.Records()); n != 4 {
		t.Fatalf("persist count: want=4 got=%d", n)
	}
}

func TestCompletionPersistsImmediately(t *testing.T) {
	p := &player{duration: 100, position: 75}
	rec := &recordingPersister{}
	sched := &manualScheduler{}
	s := newTestSampler(t, p, rec, sched)
	s.Start(context.Background())

	sched.Fire()
	p.position = 80
	sched.Fire()

	got := rec.Records()
	if len(got) != 2 {
		t.Fatalf("persist count: want=2 got=%d", len(got))
	}
	last := got[len(got)-1]
	if !last.Completed || last.Percentage != 80 {
		t.Fatalf("completion record: completed=%v pct=%d", last.Completed, last.Percentage)
	}

	// Already completed in this session: the window applies again.
	p.position = 81
	sched.Fire()
	if n := len(rec.Records()); n != 2 {
		t.Fatalf("persist count after completion: want=2 got=%d", n)
	}
}

func TestZeroDurationIsNoop(t *testing.T) {
	p := &player{duration: 0, position: 300}
	rec := &recordingPersister{}
	sched := &manualScheduler{}
	s := newTestSampler(t, p, rec, sched)
	s.Start(context.Background())
	sched.Fire()
	p.duration = -1
	sched.Fire()
	if n := len(rec.Records()); n != 0 {
		t.Fatalf("persist count: want=0 got=%d", n)
	}
}

func TestStopTwiceAndNoPersistAfterStop(t *testing.T) {
	p := &player{duration: 600}
	rec := &recordingPersister{}
	sched := &manualScheduler{}
	s := newTestSampler(t, p, rec, sched)

	s.Stop()
	s.Start(context.Background())
	s.Start(context.Background())
	if n := sched.Live(); n != 1 {
		t.Fatalf("Start while sampling: live timers want=1 got=%d", n)
	}
	s.Stop()
	s.Stop()
	if s.Sampling() {
		t.Fatalf("still sampling after Stop")
	}

	p.position = 500
	sched.Fire()
	if n := len(rec.Records()); n != 0 {
		t.Fatalf("persisted after Stop: %d", n)
	}
}

func TestStaleTimerCallbackIgnoredAfterRestart(t *testing.T) {
	p := &player{duration: 600}
	rec := &recordingPersister{}
	var captured []func()
	sched := schedulerFunc(func(_ time.Duration, fn func()) StopFunc {
		captured = append(captured, fn)
		return func() {}
	})
	s := newTestSampler(t, p, rec, sched)
	s.Start(context.Background())
	s.Stop()
	s.Start(context.Background())

	p.position = 100
	captured[0]()
	if n := len(rec.Records()); n != 0 {
		t.Fatalf("stale callback persisted: %d", n)
	}
	captured[1]()
	if n := len(rec.Records()); n != 1 {
		t.Fatalf("current callback: want=1 got=%d", n)
	}
}

type schedulerFunc func(d time.Duration, fn func()) StopFunc

func (f schedulerFunc) Every(d time.Duration, fn func()) StopFunc { return f(d, fn) }

func TestEndedForcesCompletedHundred(t *testing.T) {
	p := &player{duration: 100, position: 40}
	rec := &recordingPersister{}
	sched := &manualScheduler{}
	s := newTestSampler(t, p, rec, sched)
	s.Start(context.Background())
	sched.Fire()

	if err := s.Ended(context.Background()); err != nil {
		t.Fatalf("Ended: %v", err)
	}
	got := rec.Records()
	last := got[len(got)-1]
	if last.Percentage != 100 || !last.Completed {
		t.Fatalf("Ended record: pct=%d completed=%v", last.Percentage, last.Completed)
	}

	// Ended also works on an idle sampler with unloaded media.
	idle := newTestSampler(t, &player{}, rec, &manualScheduler{})
	if err := idle.Ended(context.Background()); err != nil {
		t.Fatalf("Ended idle: %v", err)
	}
	last = rec.Records()[len(rec.Records())-1]
	if last.Percentage != 100 || !last.Completed {
		t.Fatalf("Ended idle record: pct=%d completed=%v", last.Percentage, last.Completed)
	}
}

func TestPersistFailureIsNotRetriedButNextTickResamples(t *testing.T) {
	p := &player{duration: 600, position: 30}
	rec := &recordingPersister{fail: errPersist}
	sched := &manualScheduler{}
	s := newTestSampler(t, p, rec, sched)
	s.Start(context.Background())

	sched.Fire()
	if n := len(rec.Records()); n != 0 {
		t.Fatalf("failed persist recorded: %d", n)
	}
	rec.mu.Lock()
	rec.fail = nil
	rec.mu.Unlock()

	p.position = 35
	sched.Fire()
	got := rec.Records()
	if len(got) != 1 || got[0].PositionSeconds != 35 {
		t.Fatalf("next tick: want one record at 35, got %+v", got)
	}
}

func TestObserveUsesSameDecision(t *testing.T) {
	p := &player{duration: 600, position: 10}
	rec := &recordingPersister{}
	s := newTestSampler(t, p, rec, &manualScheduler{})

	ok, err := s.Observe(context.Background())
	if err != nil || ok {
		t.Fatalf("Observe inside window: ok=%v err=%v", ok, err)
	}
	p.position = 16
	ok, err = s.Observe(context.Background())
	if err != nil || !ok {
		t.Fatalf("Observe outside window: ok=%v err=%v", ok, err)
	}
}
