package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ClassRepo interface {
	Create(ctx context.Context, tx *gorm.DB, classes []*types.Class) ([]*types.Class, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Class, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Class, error)
	List(ctx context.Context, tx *gorm.DB, status types.ClassStatus) ([]*types.Class, error)
	GetByProfessorID(ctx context.Context, tx *gorm.DB, professorID uuid.UUID) ([]*types.Class, error)
	GetByTrailIDs(ctx context.Context, tx *gorm.DB, trailIDs []uuid.UUID) ([]*types.Class, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	ReplaceProfessors(ctx context.Context, tx *gorm.DB, classID uuid.UUID, professorIDs []uuid.UUID) error
	ReplaceTrails(ctx context.Context, tx *gorm.DB, classID uuid.UUID, trailIDs []uuid.UUID) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type classRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassRepo(db *gorm.DB, baseLog *logger.Logger) ClassRepo {
	repoLog := baseLog.With("repo", "ClassRepo")
	return &classRepo{db: db, log: repoLog}
}

func withRefs(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Professors", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Trails", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

func (r *classRepo) Create(ctx context.Context, tx *gorm.DB, classes []*types.Class) ([]*types.Class, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(classes) == 0 {
		return []*types.Class{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Class, error) {
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *classRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Class, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Class
	if len(ids) == 0 {
		return results, nil
	}
	if err := withRefs(transaction.WithContext(ctx)).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// List returns classes newest first; an empty status means all.
func (r *classRepo) List(ctx context.Context, tx *gorm.DB, status types.ClassStatus) ([]*types.Class, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := withRefs(transaction.WithContext(ctx))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var results []*types.Class
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByProfessorID matches either the join table or the legacy column.
// The legacy column only counts when the class has no join rows.
func (r *classRepo) GetByProfessorID(ctx context.Context, tx *gorm.DB, professorID uuid.UUID) ([]*types.Class, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Class
	if err := withRefs(transaction.WithContext(ctx)).
		Where("id IN (?)", transaction.Model(&types.ClassProfessor{}).Select("class_id").Where("professor_id = ?", professorID)).
		Or("professor_id = ? AND NOT EXISTS (SELECT 1 FROM class_professors cp WHERE cp.class_id = classes.id)", professorID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *classRepo) GetByTrailIDs(ctx context.Context, tx *gorm.DB, trailIDs []uuid.UUID) ([]*types.Class, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Class
	if len(trailIDs) == 0 {
		return results, nil
	}
	if err := withRefs(transaction.WithContext(ctx)).
		Where("id IN (?)", transaction.Model(&types.ClassTrail{}).Select("class_id").Where("trail_id IN ?", trailIDs)).
		Or("trail_id IN ? AND NOT EXISTS (SELECT 1 FROM class_trails ct WHERE ct.class_id = classes.id)", trailIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *classRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Class{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ReplaceProfessors writes the join rows and clears the legacy column so the
// class is read in the current shape from then on.
func (r *classRepo) ReplaceProfessors(ctx context.Context, tx *gorm.DB, classID uuid.UUID, professorIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Where("class_id = ?", classID).Delete(&types.ClassProfessor{}).Error; err != nil {
			return err
		}
		rows := make([]types.ClassProfessor, 0, len(professorIDs))
		for i, id := range professorIDs {
			rows = append(rows, types.ClassProfessor{ClassID: classID, ProfessorID: id, Position: i})
		}
		if len(rows) > 0 {
			if err := inner.Create(&rows).Error; err != nil {
				return err
			}
		}
		return inner.Model(&types.Class{}).Where("id = ?", classID).Update("professor_id", nil).Error
	})
}

func (r *classRepo) ReplaceTrails(ctx context.Context, tx *gorm.DB, classID uuid.UUID, trailIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Where("class_id = ?", classID).Delete(&types.ClassTrail{}).Error; err != nil {
			return err
		}
		rows := make([]types.ClassTrail, 0, len(trailIDs))
		for i, id := range trailIDs {
			rows = append(rows, types.ClassTrail{ClassID: classID, TrailID: id, Position: i})
		}
		if len(rows) > 0 {
			if err := inner.Create(&rows).Error; err != nil {
				return err
			}
		}
		return inner.Model(&types.Class{}).Where("id = ?", classID).Update("trail_id", nil).Error
	})
}

func (r *classRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Where("class_id IN ?", ids).Delete(&types.ClassProfessor{}).Error; err != nil {
			return err
		}
		if err := inner.Where("class_id IN ?", ids).Delete(&types.ClassTrail{}).Error; err != nil {
			return err
		}
		if err := inner.Where("class_id IN ?", ids).Delete(&types.Enrollment{}).Error; err != nil {
			return err
		}
		if err := inner.Where("class_id IN ?", ids).Delete(&types.Meeting{}).Error; err != nil {
			return err
		}
		return inner.Where("id IN ?", ids).Delete(&types.Class{}).Error
	})
}
