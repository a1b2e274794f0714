package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ModuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, modules []*types.Module) ([]*types.Module, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Module, error)
	GetByTrailIDs(ctx context.Context, tx *gorm.DB, trailIDs []uuid.UUID) ([]*types.Module, error)
	NextOrderIndex(ctx context.Context, tx *gorm.DB, trailID uuid.UUID) (int, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	UpdateOrder(ctx context.Context, tx *gorm.DB, trailID uuid.UUID, orderedIDs []uuid.UUID) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	repoLog := baseLog.With("repo", "ModuleRepo")
	return &moduleRepo{db: db, log: repoLog}
}

func (r *moduleRepo) Create(ctx context.Context, tx *gorm.DB, modules []*types.Module) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(modules) == 0 {
		return []*types.Module{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Module
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

func (r *moduleRepo) GetByTrailIDs(ctx context.Context, tx *gorm.DB, trailIDs []uuid.UUID) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Module
	if len(trailIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("trail_id IN ?", trailIDs).
		Order("trail_id ASC, order_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) NextOrderIndex(ctx context.Context, tx *gorm.DB, trailID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var maxIndex int
	row := transaction.WithContext(ctx).
		Model(&types.Module{}).
		Where("trail_id = ?", trailID).
		Select("COALESCE(MAX(order_index), -1)").
		Row()
	if err := row.Scan(&maxIndex); err != nil {
		return 0, err
	}
	return maxIndex + 1, nil
}

func (r *moduleRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Module{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateOrder rewrites order_index so that orderedIDs appear in the given order.
func (r *moduleRepo) UpdateOrder(ctx context.Context, tx *gorm.DB, trailID uuid.UUID, orderedIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := inner.Model(&types.Module{}).
				Where("id = ? AND trail_id = ?", id, trailID).
				Update("order_index", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *moduleRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Module{}).Error
}
