package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type TrailRepo interface {
	Create(ctx context.Context, tx *gorm.DB, trails []*types.Trail) ([]*types.Trail, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Trail, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Trail, error)
}

type trailRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrailRepo(db *gorm.DB, baseLog *logger.Logger) TrailRepo {
	repoLog := baseLog.With("repo", "TrailRepo")
	return &trailRepo{db: db, log: repoLog}
}

func (r *trailRepo) Create(ctx context.Context, tx *gorm.DB, trails []*types.Trail) ([]*types.Trail, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(trails) == 0 {
		return []*types.Trail{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&trails).Error; err != nil {
		return nil, err
	}
	return trails, nil
}

func (r *trailRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Trail, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Trail
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trailRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Trail, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Trail
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
