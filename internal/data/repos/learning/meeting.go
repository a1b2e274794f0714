package learning

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type MeetingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, meetings []*types.Meeting) ([]*types.Meeting, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Meeting, error)
	GetByClassIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) ([]*types.Meeting, error)
	Upcoming(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID, from time.Time, limit int) ([]*types.Meeting, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	// UpdateStatus moves a meeting from -> to and reports whether a row changed.
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to types.MeetingStatus) (bool, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type meetingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeetingRepo(db *gorm.DB, baseLog *logger.Logger) MeetingRepo {
	repoLog := baseLog.With("repo", "MeetingRepo")
	return &meetingRepo{db: db, log: repoLog}
}

func (r *meetingRepo) Create(ctx context.Context, tx *gorm.DB, meetings []*types.Meeting) ([]*types.Meeting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(meetings) == 0 {
		return []*types.Meeting{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

func (r *meetingRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Meeting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Meeting
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

func (r *meetingRepo) GetByClassIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) ([]*types.Meeting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Meeting
	if len(classIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("class_id IN ?", classIDs).
		Order("scheduled_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Upcoming lists scheduled or live meetings at or after from. A nil classIDs
// means every class; an empty non-nil slice matches nothing.
func (r *meetingRepo) Upcoming(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID, from time.Time, limit int) ([]*types.Meeting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Meeting
	if classIDs != nil && len(classIDs) == 0 {
		return results, nil
	}
	q := transaction.WithContext(ctx).
		Where("scheduled_at >= ?", from).
		Where("status IN ?", []types.MeetingStatus{types.MeetingScheduled, types.MeetingLive})
	if classIDs != nil {
		q = q.Where("class_id IN ?", classIDs)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("scheduled_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *meetingRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Meeting{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *meetingRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to types.MeetingStatus) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Meeting{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *meetingRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Meeting{}).Error
}
