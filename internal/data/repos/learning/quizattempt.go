package learning

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/errors"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizAttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QuizAttempt, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuizAttempt, error)
	UpdateAnswers(ctx context.Context, tx *gorm.DB, id uuid.UUID, answers datatypes.JSON) error
	Complete(ctx context.Context, tx *gorm.DB, id uuid.UUID, answers datatypes.JSON, score float64, passed bool, at time.Time) error
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	repoLog := baseLog.With("repo", "QuizAttemptRepo")
	return &quizAttemptRepo{db: db, log: repoLog}
}

func (r *quizAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(attempts) == 0 {
		return []*types.QuizAttempt{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *quizAttemptRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.QuizAttempt
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *quizAttemptRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.QuizAttempt
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateAnswers only touches open attempts.
func (r *quizAttemptRepo) UpdateAnswers(ctx context.Context, tx *gorm.DB, id uuid.UUID, answers datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Where("id = ? AND completed_at IS NULL", id).
		Update("answers", answers)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrAttemptCompleted
	}
	return nil
}

// Complete writes score, passed and completed_at together. A second call
// returns ErrAttemptCompleted and leaves the first result in place.
func (r *quizAttemptRepo) Complete(ctx context.Context, tx *gorm.DB, id uuid.UUID, answers datatypes.JSON, score float64, passed bool, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	updates := map[string]interface{}{
		"score":        score,
		"passed":       passed,
		"completed_at": at,
	}
	if len(answers) > 0 {
		updates["answers"] = answers
	}
	res := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Where("id = ? AND completed_at IS NULL", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrAttemptCompleted
	}
	return nil
}
