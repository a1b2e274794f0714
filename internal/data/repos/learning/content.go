package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contents []*types.Content) ([]*types.Content, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Content, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Content, error)
	GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Content, error)
	GetByTrailIDs(ctx context.Context, tx *gorm.DB, trailIDs []uuid.UUID) ([]*types.Content, error)
	CountByType(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) (map[types.ContentType]int, error)
	NextOrderIndex(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (int, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	FullDeleteByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) error
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	repoLog := baseLog.With("repo", "ContentRepo")
	return &contentRepo{db: db, log: repoLog}
}

func (r *contentRepo) Create(ctx context.Context, tx *gorm.DB, contents []*types.Content) ([]*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(contents) == 0 {
		return []*types.Content{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *contentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Content, error) {
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *contentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Content
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

func (r *contentRepo) GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Content
	if len(moduleIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Order("module_id ASC, order_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByTrailIDs returns every content item reachable from the given trails.
func (r *contentRepo) GetByTrailIDs(ctx context.Context, tx *gorm.DB, trailIDs []uuid.UUID) ([]*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Content
	if len(trailIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Joins("JOIN modules ON modules.id = contents.module_id").
		Where("modules.trail_id IN ?", trailIDs).
		Order("modules.order_index ASC, contents.order_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRepo) CountByType(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) (map[types.ContentType]int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	out := map[types.ContentType]int{}
	if len(moduleIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		Type  types.ContentType
		Count int
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Content{}).
		Select("type, COUNT(*) AS count").
		Where("module_id IN ?", moduleIDs).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Type] = row.Count
	}
	return out, nil
}

func (r *contentRepo) NextOrderIndex(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var maxIndex int
	row := transaction.WithContext(ctx).
		Model(&types.Content{}).
		Where("module_id = ?", moduleID).
		Select("COALESCE(MAX(order_index), -1)").
		Row()
	if err := row.Scan(&maxIndex); err != nil {
		return 0, err
	}
	return maxIndex + 1, nil
}

func (r *contentRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Content{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *contentRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Content{}).Error
}

func (r *contentRepo) FullDeleteByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(moduleIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Delete(&types.Content{}).Error
}
