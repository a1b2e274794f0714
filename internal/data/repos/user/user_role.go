package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRoleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.UserRole) ([]*types.UserRole, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserRole, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserRole, error)
	ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, roles []types.Role) ([]*types.UserRole, error)
	DeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type userRoleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRoleRepo(db *gorm.DB, baseLog *logger.Logger) UserRoleRepo {
	repoLog := baseLog.With("repo", "UserRoleRepo")
	return &userRoleRepo{db: db, log: repoLog}
}

func (r *userRoleRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserRole) ([]*types.UserRole, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.UserRole{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByUserID returns roles in insertion order; the first row is the primary role.
func (r *userRoleRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserRole, error) {
	return r.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
}

func (r *userRoleRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserRole, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserRole
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ReplaceForUser swaps the whole role set inside one transaction. Creation
// times are staggered so the given order survives the created_at sort.
func (r *userRoleRepo) ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, roles []types.Role) ([]*types.UserRole, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	rows := make([]*types.UserRole, 0, len(roles))
	base := time.Now().UTC()
	for i, role := range roles {
		rows = append(rows, &types.UserRole{
			UserID:    userID,
			Role:      role,
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		})
	}

	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Where("user_id = ?", userID).Delete(&types.UserRole{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return inner.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userRoleRepo) DeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.UserRole{}).Error
}
