package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	apperr "github.com/yungbote/classroom-backend/internal/pkg/errors"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/store"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, classID uuid.UUID) (*types.Enrollment, error)
	ListByClass(ctx context.Context, classID uuid.UUID) ([]*types.Enrollment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Enrollment, error)
	SetFinalGrade(ctx context.Context, studentID, classID uuid.UUID, grade *float64) (*types.Enrollment, error)
	AdminSetProgress(ctx context.Context, studentID, classID uuid.UUID, progress int) (*types.Enrollment, error)
	Unenroll(ctx context.Context, studentID, classID uuid.UUID) error
}

type enrollmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	classRepo      repos.ClassRepo
	profileRepo    repos.ProfileRepo
	enrollmentRepo repos.EnrollmentRepo
	mirror         Mirror
}

func NewEnrollmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	classRepo repos.ClassRepo,
	profileRepo repos.ProfileRepo,
	enrollmentRepo repos.EnrollmentRepo,
	mirror Mirror,
) EnrollmentService {
	return &enrollmentService{
		db:             db,
		log:            baseLog.With("service", "EnrollmentService"),
		classRepo:      classRepo,
		profileRepo:    profileRepo,
		enrollmentRepo: enrollmentRepo,
		mirror:         mirror,
	}
}

func (es *enrollmentService) Enroll(ctx context.Context, studentID, classID uuid.UUID) (*types.Enrollment, error) {
	if studentID == uuid.Nil || classID == uuid.Nil {
		return nil, fmt.Errorf("%w: student and class are required", ErrInvalidArgument)
	}
	e := &types.Enrollment{StudentID: studentID, ClassID: classID, EnrolledAt: time.Now().UTC()}
	e.SetCompleted(nil)
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := es.classRepo.GetByID(ctx, tx, classID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("class %s: %w", classID, ErrNotFound)
		}
		p, err := es.profileRepo.GetByID(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("user %s: %w", studentID, ErrNotFound)
		}
		existing, err := es.enrollmentRepo.Get(ctx, tx, studentID, classID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("student already enrolled: %w", ErrConflict)
		}
		if _, err := es.enrollmentRepo.Create(ctx, tx, []*types.Enrollment{e}); err != nil {
			if apperr.IsUniqueViolation(err) {
				return fmt.Errorf("student already enrolled: %w", ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		es.log.Warn("Enroll failed", "student_id", studentID, "class_id", classID, "error", err)
		return nil, fmt.Errorf("enroll: %w", err)
	}
	mirrorWrite(ctx, es.log, es.mirror, store.Mirror(store.CmdEnrollStudent, store.EnrollStudent{StudentID: studentID, ClassID: classID}))
	return e, nil
}

func (es *enrollmentService) ListByClass(ctx context.Context, classID uuid.UUID) ([]*types.Enrollment, error) {
	out, err := es.enrollmentRepo.GetByClassIDs(ctx, nil, []uuid.UUID{classID})
	if err != nil {
		es.log.Error("List enrollments failed", "class_id", classID, "error", err)
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return out, nil
}

func (es *enrollmentService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Enrollment, error) {
	out, err := es.enrollmentRepo.GetByStudentID(ctx, nil, studentID)
	if err != nil {
		es.log.Error("List enrollments failed", "student_id", studentID, "error", err)
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return out, nil
}

func (es *enrollmentService) SetFinalGrade(ctx context.Context, studentID, classID uuid.UUID, grade *float64) (*types.Enrollment, error) {
	if grade != nil && (*grade < 0 || *grade > 100) {
		return nil, fmt.Errorf("%w: grade must be within 0..100", ErrInvalidArgument)
	}
	return es.update(ctx, studentID, classID, func(e *types.Enrollment) {
		e.FinalGrade = grade
	})
}

// AdminSetProgress overrides progress directly and may lower it, unlike the
// tracking path which only raises.
func (es *enrollmentService) AdminSetProgress(ctx context.Context, studentID, classID uuid.UUID, progress int) (*types.Enrollment, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress must be within 0..100", ErrInvalidArgument)
	}
	e, err := es.update(ctx, studentID, classID, func(e *types.Enrollment) {
		e.Progress = progress
	})
	if err != nil {
		return nil, err
	}
	mirrorWrite(ctx, es.log, es.mirror, store.Mirror(store.CmdSetEnrollmentProgress, store.SetEnrollmentProgress{
		StudentID: studentID,
		ClassID:   classID,
		Progress:  progress,
	}))
	return e, nil
}

func (es *enrollmentService) Unenroll(ctx context.Context, studentID, classID uuid.UUID) error {
	existing, err := es.enrollmentRepo.Get(ctx, nil, studentID, classID)
	if err != nil {
		es.log.Error("Unenroll lookup failed", "student_id", studentID, "class_id", classID, "error", err)
		return fmt.Errorf("unenroll: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("enrollment: %w", ErrNotFound)
	}
	if err := es.enrollmentRepo.Delete(ctx, nil, studentID, classID); err != nil {
		es.log.Error("Unenroll failed", "student_id", studentID, "class_id", classID, "error", err)
		return fmt.Errorf("unenroll: %w", err)
	}
	return nil
}

func (es *enrollmentService) update(ctx context.Context, studentID, classID uuid.UUID, mutate func(*types.Enrollment)) (*types.Enrollment, error) {
	var out *types.Enrollment
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := es.enrollmentRepo.GetForUpdate(ctx, tx, studentID, classID)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("enrollment: %w", ErrNotFound)
		}
		mutate(e)
		if err := es.enrollmentRepo.Save(ctx, tx, e); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		es.log.Error("Update enrollment failed", "student_id", studentID, "class_id", classID, "error", err)
		return nil, fmt.Errorf("update enrollment: %w", err)
	}
	return out, nil
}
