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

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error)
	Get(ctx context.Context, tx *gorm.DB, studentID, classID uuid.UUID) (*types.Enrollment, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, studentID, classID uuid.UUID) (*types.Enrollment, error)
	GetByClassIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) ([]*types.Enrollment, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Enrollment, error)
	GetByStudentAndClassIDs(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, classIDs []uuid.UUID) ([]*types.Enrollment, error)
	CountByClassIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) (map[uuid.UUID]int, error)
	Save(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error
	Delete(ctx context.Context, tx *gorm.DB, studentID, classID uuid.UUID) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	repoLog := baseLog.With("repo", "EnrollmentRepo")
	return &enrollmentRepo{db: db, log: repoLog}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(enrollments) == 0 {
		return []*types.Enrollment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepo) get(ctx context.Context, tx *gorm.DB, studentID, classID uuid.UUID, lock bool) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.Enrollment
	err := q.Where("student_id = ? AND class_id = ?", studentID, classID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *enrollmentRepo) Get(ctx context.Context, tx *gorm.DB, studentID, classID uuid.UUID) (*types.Enrollment, error) {
	return r.get(ctx, tx, studentID, classID, false)
}

// GetForUpdate locks the row for the rest of tx on drivers that support it.
func (r *enrollmentRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, studentID, classID uuid.UUID) (*types.Enrollment, error) {
	return r.get(ctx, tx, studentID, classID, true)
}

func (r *enrollmentRepo) GetByClassIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Enrollment
	if len(classIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("class_id IN ?", classIDs).
		Order("enrolled_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Enrollment
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("enrolled_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) GetByStudentAndClassIDs(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, classIDs []uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Enrollment
	if len(classIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND class_id IN ?", studentID, classIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountByClassIDs runs one grouped query; classes without enrollments are
// present with a zero count.
func (r *enrollmentRepo) CountByClassIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	out := make(map[uuid.UUID]int, len(classIDs))
	if len(classIDs) == 0 {
		return out, nil
	}
	for _, id := range classIDs {
		out[id] = 0
	}
	var rows []struct {
		ClassID uuid.UUID
		Count   int
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Enrollment{}).
		Select("class_id, COUNT(*) AS count").
		Where("class_id IN ?", classIDs).
		Group("class_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ClassID] = row.Count
	}
	return out, nil
}

func (r *enrollmentRepo) Save(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if enrollment == nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("student_id = ? AND class_id = ?", enrollment.StudentID, enrollment.ClassID).
		Updates(map[string]interface{}{
			"progress":              enrollment.Progress,
			"final_grade":           enrollment.FinalGrade,
			"completed_content_ids": enrollment.CompletedContentIDs,
		}).Error
}

func (r *enrollmentRepo) Delete(ctx context.Context, tx *gorm.DB, studentID, classID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		Delete(&types.Enrollment{}).Error
}
