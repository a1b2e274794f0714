package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classroom-backend/internal/domain"
)

func TestMeetingServiceTransitions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := NewMeetingService(e.db, e.log, e.classes, e.meetings, e.mirror)
	class := testutil.SeedClass(t, ctx, e.db, nil, nil)

	m, err := svc.Create(ctx, MeetingInput{ClassID: class.ID, Title: "Kickoff", ScheduledAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Status != types.MeetingScheduled || m.DurationMinutes != 60 {
		t.Fatalf("defaults: unexpected %+v", m)
	}

	if _, err := svc.TransitionStatus(ctx, m.ID, types.MeetingCompleted); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("scheduled->completed: want ErrInvalidArgument, got %v", err)
	}
	live, err := svc.TransitionStatus(ctx, m.ID, types.MeetingLive)
	if err != nil {
		t.Fatalf("scheduled->live: %v", err)
	}
	if live.Status != types.MeetingLive {
		t.Fatalf("status: want=live got=%s", live.Status)
	}
	done, err := svc.TransitionStatus(ctx, m.ID, types.MeetingCompleted)
	if err != nil {
		t.Fatalf("live->completed: %v", err)
	}
	if done.Status != types.MeetingCompleted {
		t.Fatalf("status: want=completed got=%s", done.Status)
	}
	if _, err := svc.TransitionStatus(ctx, m.ID, types.MeetingCancelled); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("completed->cancelled: want ErrInvalidArgument, got %v", err)
	}
}

func TestMeetingServiceCreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := NewMeetingService(e.db, e.log, e.classes, e.meetings, e.mirror)

	if _, err := svc.Create(ctx, MeetingInput{Title: "x", ScheduledAt: time.Now()}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("no class: want ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.Create(ctx, MeetingInput{ClassID: uuid.New(), Title: "x", ScheduledAt: time.Now()}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown class: want ErrNotFound, got %v", err)
	}
}

func TestMeetingServiceUpcomingSkipsClosed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := NewMeetingService(e.db, e.log, e.classes, e.meetings, e.mirror)
	class := testutil.SeedClass(t, ctx, e.db, nil, nil)
	now := time.Now().UTC()

	past, err := svc.Create(ctx, MeetingInput{ClassID: class.ID, Title: "past", ScheduledAt: now.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("Create past: %v", err)
	}
	soon, err := svc.Create(ctx, MeetingInput{ClassID: class.ID, Title: "soon", ScheduledAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Create soon: %v", err)
	}
	cancelled, err := svc.Create(ctx, MeetingInput{ClassID: class.ID, Title: "off", ScheduledAt: now.Add(2 * time.Hour)})
	if err != nil {
		t.Fatalf("Create cancelled: %v", err)
	}
	if _, err := svc.TransitionStatus(ctx, cancelled.ID, types.MeetingCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	got, err := svc.Upcoming(ctx, now, []uuid.UUID{class.ID})
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	if len(got) != 1 || got[0].ID != soon.ID {
		t.Fatalf("upcoming: want=[soon] got=%d meetings", len(got))
	}

	if err := svc.Delete(ctx, past.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err := svc.ListByClass(ctx, class.ID)
	if err != nil {
		t.Fatalf("ListByClass: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("after delete: want=2 got=%d", len(all))
	}
}
