package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/tracking"
	"gorm.io/gorm"
)

// ProgressService is the persistence side of playback tracking. It satisfies
// tracking.Persister.
type ProgressService interface {
	Persist(ctx context.Context, rec tracking.Record) error
	ForUser(ctx context.Context, userID uuid.UUID, contentIDs []uuid.UUID) ([]*types.UserProgress, error)
}

type progressService struct {
	db             *gorm.DB
	log            *logger.Logger
	progressRepo   repos.UserProgressRepo
	contentRepo    repos.ContentRepo
	moduleRepo     repos.ModuleRepo
	classRepo      repos.ClassRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	progressRepo repos.UserProgressRepo,
	contentRepo repos.ContentRepo,
	moduleRepo repos.ModuleRepo,
	classRepo repos.ClassRepo,
	enrollmentRepo repos.EnrollmentRepo,
) ProgressService {
	return &progressService{
		db:             db,
		log:            baseLog.With("service", "ProgressService"),
		progressRepo:   progressRepo,
		contentRepo:    contentRepo,
		moduleRepo:     moduleRepo,
		classRepo:      classRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// Persist upserts the (user, content) record. A completed sample also marks
// the content done in every enrollment whose class reaches it through its
// trails, raising enrollment progress to the completed ratio.
func (ps *progressService) Persist(ctx context.Context, rec tracking.Record) error {
	if rec.UserID == uuid.Nil || rec.ContentID == uuid.Nil {
		return fmt.Errorf("%w: user and content are required", ErrInvalidArgument)
	}
	sample := &types.UserProgress{
		UserID:              rec.UserID,
		ContentID:           rec.ContentID,
		Completed:           rec.Completed,
		Percentage:          rec.Percentage,
		LastPositionSeconds: rec.PositionSeconds,
		LastAccessedAt:      rec.At.UTC(),
	}
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, _, err := ps.progressRepo.UpsertMonotonic(ctx, tx, sample); err != nil {
			return err
		}
		if !rec.Completed {
			return nil
		}
		return ps.markCompleted(ctx, tx, rec.UserID, rec.ContentID)
	})
	if err != nil {
		ps.log.Warn("Persist progress failed",
			"user_id", rec.UserID,
			"content_id", rec.ContentID,
			"percentage", rec.Percentage,
			"error", err,
		)
		return fmt.Errorf("persist progress: %w", err)
	}
	return nil
}

func (ps *progressService) markCompleted(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) error {
	content, err := ps.contentRepo.GetByID(ctx, tx, contentID)
	if err != nil || content == nil {
		return err
	}
	modules, err := ps.moduleRepo.GetByIDs(ctx, tx, []uuid.UUID{content.ModuleID})
	if err != nil || len(modules) == 0 {
		return err
	}
	classes, err := ps.classRepo.GetByTrailIDs(ctx, tx, []uuid.UUID{modules[0].TrailID})
	if err != nil {
		return err
	}

	for _, c := range classes {
		e, err := ps.enrollmentRepo.GetForUpdate(ctx, tx, userID, c.ID)
		if err != nil {
			return err
		}
		if e == nil {
			continue
		}
		trailContents, err := ps.contentRepo.GetByTrailIDs(ctx, tx, types.ResolveTrailIDs(c))
		if err != nil {
			return err
		}
		inClass := make(map[uuid.UUID]bool, len(trailContents))
		for _, tc := range trailContents {
			inClass[tc.ID] = true
		}

		grew := e.AddCompleted(contentID)
		done := 0
		for _, id := range e.CompletedIDs() {
			if inClass[id] {
				done++
			}
		}
		raised := e.RaiseProgress(types.CompletionRatio(done, len(trailContents)))
		if !grew && !raised {
			continue
		}
		if err := ps.enrollmentRepo.Save(ctx, tx, e); err != nil {
			return err
		}
		ps.log.Debug("Enrollment progress updated",
			"user_id", userID,
			"class_id", c.ID,
			"progress", e.Progress,
		)
	}
	return nil
}

func (ps *progressService) ForUser(ctx context.Context, userID uuid.UUID, contentIDs []uuid.UUID) ([]*types.UserProgress, error) {
	var (
		out []*types.UserProgress
		err error
	)
	if contentIDs == nil {
		out, err = ps.progressRepo.GetByUserID(ctx, nil, userID)
	} else {
		out, err = ps.progressRepo.GetByUserAndContentIDs(ctx, nil, userID, contentIDs)
	}
	if err != nil {
		ps.log.Error("Load progress failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return out, nil
}
