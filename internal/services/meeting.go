package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/store"
	"gorm.io/gorm"
)

const DefaultUpcomingLimit = 20

type MeetingInput struct {
	ClassID         uuid.UUID `json:"class_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	MeetingURL      string    `json:"meeting_url"`
	Capacity        int       `json:"capacity"`
}

// MeetingPatch edits scheduling details. Status moves only via TransitionStatus.
type MeetingPatch struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	MeetingURL      *string    `json:"meeting_url"`
	Capacity        *int       `json:"capacity"`
}

type MeetingService interface {
	ListByClass(ctx context.Context, classID uuid.UUID) ([]*types.Meeting, error)
	Upcoming(ctx context.Context, now time.Time, classIDs []uuid.UUID) ([]*types.Meeting, error)
	Create(ctx context.Context, in MeetingInput) (*types.Meeting, error)
	Update(ctx context.Context, id uuid.UUID, patch MeetingPatch) (*types.Meeting, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, to types.MeetingStatus) (*types.Meeting, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type meetingService struct {
	db          *gorm.DB
	log         *logger.Logger
	classRepo   repos.ClassRepo
	meetingRepo repos.MeetingRepo
	mirror      Mirror
}

func NewMeetingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	classRepo repos.ClassRepo,
	meetingRepo repos.MeetingRepo,
	mirror Mirror,
) MeetingService {
	return &meetingService{
		db:          db,
		log:         baseLog.With("service", "MeetingService"),
		classRepo:   classRepo,
		meetingRepo: meetingRepo,
		mirror:      mirror,
	}
}

func (ms *meetingService) ListByClass(ctx context.Context, classID uuid.UUID) ([]*types.Meeting, error) {
	meetings, err := ms.meetingRepo.GetByClassIDs(ctx, nil, []uuid.UUID{classID})
	if err != nil {
		ms.log.Error("List meetings failed", "class_id", classID, "error", err)
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, nil
}

// Upcoming lists scheduled or live meetings at or after now. A nil classIDs
// means every class.
func (ms *meetingService) Upcoming(ctx context.Context, now time.Time, classIDs []uuid.UUID) ([]*types.Meeting, error) {
	meetings, err := ms.meetingRepo.Upcoming(ctx, nil, classIDs, now, DefaultUpcomingLimit)
	if err != nil {
		ms.log.Error("Upcoming meetings failed", "error", err)
		return nil, fmt.Errorf("upcoming meetings: %w", err)
	}
	return meetings, nil
}

func (ms *meetingService) Create(ctx context.Context, in MeetingInput) (*types.Meeting, error) {
	title := strings.TrimSpace(in.Title)
	switch {
	case in.ClassID == uuid.Nil:
		return nil, fmt.Errorf("%w: class_id is required", ErrInvalidArgument)
	case title == "":
		return nil, fmt.Errorf("%w: meeting title is required", ErrInvalidArgument)
	case in.ScheduledAt.IsZero():
		return nil, fmt.Errorf("%w: scheduled_at is required", ErrInvalidArgument)
	case in.DurationMinutes < 0 || in.Capacity < 0:
		return nil, fmt.Errorf("%w: duration and capacity cannot be negative", ErrInvalidArgument)
	}
	duration := in.DurationMinutes
	if duration == 0 {
		duration = 60
	}
	m := &types.Meeting{
		ID:              uuid.New(),
		ClassID:         in.ClassID,
		Title:           title,
		Description:     in.Description,
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: duration,
		MeetingURL:      strings.TrimSpace(in.MeetingURL),
		Status:          types.MeetingScheduled,
		Capacity:        in.Capacity,
	}
	err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := ms.classRepo.GetByID(ctx, tx, in.ClassID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("class %s: %w", in.ClassID, ErrNotFound)
		}
		_, err = ms.meetingRepo.Create(ctx, tx, []*types.Meeting{m})
		return err
	})
	if err != nil {
		ms.log.Error("Create meeting failed", "class_id", in.ClassID, "error", err)
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	mirrorWrite(ctx, ms.log, ms.mirror, store.Mirror(store.CmdCreateMeeting, store.CreateMeeting{
		ID:              m.ID,
		ClassID:         m.ClassID,
		Title:           m.Title,
		ScheduledAt:     m.ScheduledAt,
		DurationMinutes: m.DurationMinutes,
	}))
	return m, nil
}

func (ms *meetingService) Update(ctx context.Context, id uuid.UUID, patch MeetingPatch) (*types.Meeting, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: meeting title cannot be blank", ErrInvalidArgument)
		}
		updates["title"] = title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.ScheduledAt != nil {
		updates["scheduled_at"] = patch.ScheduledAt.UTC()
	}
	if patch.DurationMinutes != nil {
		if *patch.DurationMinutes < 0 {
			return nil, fmt.Errorf("%w: duration cannot be negative", ErrInvalidArgument)
		}
		updates["duration_minutes"] = *patch.DurationMinutes
	}
	if patch.MeetingURL != nil {
		updates["meeting_url"] = strings.TrimSpace(*patch.MeetingURL)
	}
	if patch.Capacity != nil {
		if *patch.Capacity < 0 {
			return nil, fmt.Errorf("%w: capacity cannot be negative", ErrInvalidArgument)
		}
		updates["capacity"] = *patch.Capacity
	}
	if _, err := ms.get(ctx, id); err != nil {
		return nil, err
	}
	if err := ms.meetingRepo.UpdateFields(ctx, nil, id, updates); err != nil {
		ms.log.Error("Update meeting failed", "meeting_id", id, "error", err)
		return nil, fmt.Errorf("update meeting: %w", err)
	}
	return ms.get(ctx, id)
}

// TransitionStatus moves a meeting along scheduled → live → completed, with
// cancellation allowed from either open state. The update is conditional on
// the status read, so a concurrent transition yields ErrConflict.
func (ms *meetingService) TransitionStatus(ctx context.Context, id uuid.UUID, to types.MeetingStatus) (*types.Meeting, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown meeting status %q", ErrInvalidArgument, to)
	}
	m, err := ms.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !types.CanTransition(m.Status, to) {
		return nil, fmt.Errorf("%w: meeting cannot move from %s to %s", ErrInvalidArgument, m.Status, to)
	}
	ok, err := ms.meetingRepo.UpdateStatus(ctx, nil, id, m.Status, to)
	if err != nil {
		ms.log.Error("Transition meeting failed", "meeting_id", id, "to", to, "error", err)
		return nil, fmt.Errorf("transition meeting: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("meeting %s changed concurrently: %w", id, ErrConflict)
	}
	mirrorWrite(ctx, ms.log, ms.mirror, store.Mirror(store.CmdSetMeetingStatus, store.SetMeetingStatus{ID: id, Status: to}))
	return ms.get(ctx, id)
}

func (ms *meetingService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := ms.get(ctx, id); err != nil {
		return err
	}
	if err := ms.meetingRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
		ms.log.Error("Delete meeting failed", "meeting_id", id, "error", err)
		return fmt.Errorf("delete meeting: %w", err)
	}
	mirrorWrite(ctx, ms.log, ms.mirror, store.Mirror(store.CmdDeleteMeeting, store.DeleteMeeting{ID: id}))
	return nil
}

func (ms *meetingService) get(ctx context.Context, id uuid.UUID) (*types.Meeting, error) {
	m, err := ms.meetingRepo.GetByID(ctx, nil, id)
	if err != nil {
		ms.log.Error("Get meeting failed", "meeting_id", id, "error", err)
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("meeting %s: %w", id, ErrNotFound)
	}
	return m, nil
}
