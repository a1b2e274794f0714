package learning

import (
	"context"
	"errors"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProgressRepo interface {
	// UpsertMonotonic merges the sample into the stored row and returns the
	// row as persisted plus whether completion flipped to true on this call.
	UpsertMonotonic(ctx context.Context, tx *gorm.DB, sample *types.UserProgress) (*types.UserProgress, bool, error)
	GetByUserAndContentIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentIDs []uuid.UUID) ([]*types.UserProgress, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	repoLog := baseLog.With("repo", "UserProgressRepo")
	return &userProgressRepo{db: db, log: repoLog}
}

// progressMerge folds an incoming row into a conflicting one inside the
// INSERT itself, so concurrent first writes for the same key both land.
// CASE keeps it portable across Postgres and SQLite.
var progressMerge = clause.OnConflict{
	Columns: []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
	DoUpdates: clause.Assignments(map[string]interface{}{
		"completed":             gorm.Expr("user_progress.completed OR excluded.completed"),
		"percentage":            gorm.Expr("CASE WHEN excluded.percentage > user_progress.percentage THEN excluded.percentage ELSE user_progress.percentage END"),
		"last_position_seconds": gorm.Expr("CASE WHEN excluded.last_accessed_at >= user_progress.last_accessed_at THEN excluded.last_position_seconds ELSE user_progress.last_position_seconds END"),
		"last_accessed_at":      gorm.Expr("CASE WHEN excluded.last_accessed_at >= user_progress.last_accessed_at THEN excluded.last_accessed_at ELSE user_progress.last_accessed_at END"),
		"updated_at":            gorm.Expr("excluded.updated_at"),
	}),
}

func (r *userProgressRepo) UpsertMonotonic(ctx context.Context, tx *gorm.DB, sample *types.UserProgress) (*types.UserProgress, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if sample == nil || sample.UserID == uuid.Nil || sample.ContentID == uuid.Nil {
		return nil, false, nil
	}

	var (
		out         types.UserProgress
		nowComplete bool
	)
	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		wasComplete := false
		var existing types.UserProgress
		err := inner.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND content_id = ?", sample.UserID, sample.ContentID).
			First(&existing).Error
		switch {
		case err == nil:
			wasComplete = existing.Completed
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		row := *sample
		row.ID = uuid.Nil
		row.Percentage = types.ClampPercent(row.Percentage)
		row.LastAccessedAt = row.LastAccessedAt.UTC()
		if err := inner.Clauses(progressMerge).Create(&row).Error; err != nil {
			return err
		}
		if err := inner.
			Where("user_id = ? AND content_id = ?", sample.UserID, sample.ContentID).
			First(&out).Error; err != nil {
			return err
		}
		nowComplete = out.Completed && !wasComplete
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, nowComplete, nil
}

func (r *userProgressRepo) GetByUserAndContentIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentIDs []uuid.UUID) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProgress
	if len(contentIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND content_id IN ?", userID, contentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
