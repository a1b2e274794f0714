package learning

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUserProgressMergeIsMonotonic(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	p := UserProgress{}
	p.Merge(UserProgress{Percentage: 85, Completed: true, LastPositionSeconds: 85, LastAccessedAt: t0})
	p.Merge(UserProgress{Percentage: 20, Completed: false, LastPositionSeconds: 20, LastAccessedAt: t0.Add(time.Minute)})

	if !p.Completed {
		t.Fatalf("Completed: want=true got=false")
	}
	if p.Percentage != 85 {
		t.Fatalf("Percentage: want=85 got=%d", p.Percentage)
	}
	if p.LastPositionSeconds != 20 {
		t.Fatalf("LastPositionSeconds: want=20 got=%v", p.LastPositionSeconds)
	}
}

func TestUserProgressMergeIgnoresStalePosition(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	p := UserProgress{LastAccessedAt: t0, LastPositionSeconds: 50, Percentage: 50}
	p.Merge(UserProgress{Percentage: 10, LastPositionSeconds: 10, LastAccessedAt: t0.Add(-time.Minute)})
	if p.LastPositionSeconds != 50 || !p.LastAccessedAt.Equal(t0) {
		t.Fatalf("stale sample moved position: %+v", p)
	}
}

func TestEnrollmentProgressAndCompletedSet(t *testing.T) {
	e := &Enrollment{}
	c1, c2 := uuid.New(), uuid.New()

	if !e.AddCompleted(c1, c2) {
		t.Fatalf("AddCompleted: want grown")
	}
	if e.AddCompleted(c1) {
		t.Fatalf("AddCompleted duplicate: want unchanged")
	}
	if got := len(e.CompletedIDs()); got != 2 {
		t.Fatalf("CompletedIDs: want=2 got=%d", got)
	}

	if !e.RaiseProgress(60) || e.Progress != 60 {
		t.Fatalf("RaiseProgress(60): got=%d", e.Progress)
	}
	if e.RaiseProgress(40) || e.Progress != 60 {
		t.Fatalf("RaiseProgress(40) must not lower: got=%d", e.Progress)
	}
	if !e.RaiseProgress(250) || e.Progress != 100 {
		t.Fatalf("RaiseProgress clamps: got=%d", e.Progress)
	}
}

func TestCompletionRatio(t *testing.T) {
	cases := []struct{ done, total, want int }{
		{0, 0, 0},
		{1, 4, 25},
		{2, 3, 66},
		{5, 4, 100},
	}
	for _, tc := range cases {
		if got := CompletionRatio(tc.done, tc.total); got != tc.want {
			t.Fatalf("CompletionRatio(%d,%d): want=%d got=%d", tc.done, tc.total, tc.want, got)
		}
	}
}
