package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/store"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ClassInput struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Status       types.ClassStatus `json:"status"`
	StartDate    *time.Time        `json:"start_date"`
	EndDate      *time.Time        `json:"end_date"`
	ProfessorIDs []uuid.UUID       `json:"professor_ids"`
	TrailIDs     []uuid.UUID       `json:"trail_ids"`
}

// ClassPatch only touches non-nil fields. Non-nil id lists replace the join
// rows and retire the legacy singular columns.
type ClassPatch struct {
	Name         *string            `json:"name"`
	Description  *string            `json:"description"`
	Status       *types.ClassStatus `json:"status"`
	StartDate    *time.Time         `json:"start_date"`
	EndDate      *time.Time         `json:"end_date"`
	ProfessorIDs *[]uuid.UUID       `json:"professor_ids"`
	TrailIDs     *[]uuid.UUID       `json:"trail_ids"`
}

type ClassService interface {
	List(ctx context.Context, status types.ClassStatus) ([]types.ClassView, error)
	Get(ctx context.Context, id uuid.UUID) (*types.ClassView, error)
	Create(ctx context.Context, in ClassInput) (*types.ClassView, error)
	Update(ctx context.Context, id uuid.UUID, patch ClassPatch) (*types.ClassView, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ByStatus(ctx context.Context, status types.ClassStatus) ([]types.ClassView, error)
	ForProfessor(ctx context.Context, professorID uuid.UUID) ([]types.ClassView, error)
	ForStudent(ctx context.Context, studentID uuid.UUID) ([]types.ClassView, error)
}

type classService struct {
	db             *gorm.DB
	log            *logger.Logger
	classRepo      repos.ClassRepo
	enrollmentRepo repos.EnrollmentRepo
	profileRepo    repos.ProfileRepo
	trailRepo      repos.TrailRepo
	mirror         Mirror
}

func NewClassService(
	db *gorm.DB,
	baseLog *logger.Logger,
	classRepo repos.ClassRepo,
	enrollmentRepo repos.EnrollmentRepo,
	profileRepo repos.ProfileRepo,
	trailRepo repos.TrailRepo,
	mirror Mirror,
) ClassService {
	serviceLog := baseLog.With("service", "ClassService")
	return &classService{
		db:             db,
		log:            serviceLog,
		classRepo:      classRepo,
		enrollmentRepo: enrollmentRepo,
		profileRepo:    profileRepo,
		trailRepo:      trailRepo,
		mirror:         mirror,
	}
}

func (cs *classService) List(ctx context.Context, status types.ClassStatus) ([]types.ClassView, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown class status %q", ErrInvalidArgument, status)
	}
	classes, err := cs.classRepo.List(ctx, nil, status)
	if err != nil {
		cs.log.Error("List classes failed", "error", err)
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return cs.denormalize(ctx, classes)
}

func (cs *classService) ByStatus(ctx context.Context, status types.ClassStatus) ([]types.ClassView, error) {
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", ErrInvalidArgument)
	}
	return cs.List(ctx, status)
}

func (cs *classService) Get(ctx context.Context, id uuid.UUID) (*types.ClassView, error) {
	c, err := cs.classRepo.GetByID(ctx, nil, id)
	if err != nil {
		cs.log.Error("Get class failed", "class_id", id, "error", err)
		return nil, fmt.Errorf("get class: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("class %s: %w", id, ErrNotFound)
	}
	views, err := cs.denormalize(ctx, []*types.Class{c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (cs *classService) ForProfessor(ctx context.Context, professorID uuid.UUID) ([]types.ClassView, error) {
	classes, err := cs.classRepo.GetByProfessorID(ctx, nil, professorID)
	if err != nil {
		cs.log.Error("Classes for professor failed", "professor_id", professorID, "error", err)
		return nil, fmt.Errorf("classes for professor: %w", err)
	}
	return cs.denormalize(ctx, classes)
}

func (cs *classService) ForStudent(ctx context.Context, studentID uuid.UUID) ([]types.ClassView, error) {
	enrollments, err := cs.enrollmentRepo.GetByStudentID(ctx, nil, studentID)
	if err != nil {
		cs.log.Error("Enrollments for student failed", "student_id", studentID, "error", err)
		return nil, fmt.Errorf("classes for student: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.ClassID)
	}
	classes, err := cs.classRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		cs.log.Error("Load student classes failed", "student_id", studentID, "error", err)
		return nil, fmt.Errorf("classes for student: %w", err)
	}
	return cs.denormalize(ctx, classes)
}

func (cs *classService) Create(ctx context.Context, in ClassInput) (*types.ClassView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: class name is required", ErrInvalidArgument)
	}
	status := in.Status
	if status == "" {
		status = types.ClassActive
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown class status %q", ErrInvalidArgument, status)
	}

	c := &types.Class{
		ID:          uuid.New(),
		Name:        name,
		Description: in.Description,
		Status:      status,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.classRepo.Create(ctx, tx, []*types.Class{c}); err != nil {
			return err
		}
		if err := cs.classRepo.ReplaceProfessors(ctx, tx, c.ID, in.ProfessorIDs); err != nil {
			return err
		}
		return cs.classRepo.ReplaceTrails(ctx, tx, c.ID, in.TrailIDs)
	})
	if err != nil {
		cs.log.Error("Create class failed", "error", err)
		return nil, fmt.Errorf("create class: %w", err)
	}

	view, err := cs.Get(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	mirrorWrite(ctx, cs.log, cs.mirror, store.Mirror(store.CmdCreateClass, store.CreateClass{
		ID:           view.ID,
		Name:         view.Name,
		Description:  view.Description,
		Status:       view.Status,
		ProfessorIDs: view.ProfessorIDs,
		TrailIDs:     view.TrailIDs,
	}))
	return view, nil
}

func (cs *classService) Update(ctx context.Context, id uuid.UUID, patch ClassPatch) (*types.ClassView, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: class name cannot be blank", ErrInvalidArgument)
		}
		updates["name"] = name
		patch.Name = &name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown class status %q", ErrInvalidArgument, *patch.Status)
		}
		updates["status"] = *patch.Status
	}
	if patch.StartDate != nil {
		updates["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		updates["end_date"] = *patch.EndDate
	}

	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := cs.classRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("class %s: %w", id, ErrNotFound)
		}
		if err := cs.classRepo.UpdateFields(ctx, tx, id, updates); err != nil {
			return err
		}
		if patch.ProfessorIDs != nil {
			if err := cs.classRepo.ReplaceProfessors(ctx, tx, id, *patch.ProfessorIDs); err != nil {
				return err
			}
		}
		if patch.TrailIDs != nil {
			if err := cs.classRepo.ReplaceTrails(ctx, tx, id, *patch.TrailIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		cs.log.Error("Update class failed", "class_id", id, "error", err)
		return nil, fmt.Errorf("update class: %w", err)
	}

	view, err := cs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cmd := store.UpdateClass{ID: id, Name: patch.Name, Description: patch.Description, Status: patch.Status}
	if patch.ProfessorIDs != nil {
		cmd.ProfessorIDs = view.ProfessorIDs
	}
	if patch.TrailIDs != nil {
		cmd.TrailIDs = view.TrailIDs
	}
	mirrorWrite(ctx, cs.log, cs.mirror, store.Mirror(store.CmdUpdateClass, cmd))
	return view, nil
}

func (cs *classService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := cs.classRepo.GetByID(ctx, nil, id)
	if err != nil {
		cs.log.Error("Delete class lookup failed", "class_id", id, "error", err)
		return fmt.Errorf("delete class: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("class %s: %w", id, ErrNotFound)
	}
	if err := cs.classRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
		cs.log.Error("Delete class failed", "class_id", id, "error", err)
		return fmt.Errorf("delete class: %w", err)
	}
	mirrorWrite(ctx, cs.log, cs.mirror, store.Mirror(store.CmdDeleteClass, store.DeleteClass{ID: id}))
	return nil
}

// denormalize resolves refs for every class and loads counts, professor names
// and trail names concurrently.
func (cs *classService) denormalize(ctx context.Context, classes []*types.Class) ([]types.ClassView, error) {
	views := make([]types.ClassView, 0, len(classes))
	if len(classes) == 0 {
		return views, nil
	}

	classIDs := make([]uuid.UUID, 0, len(classes))
	profIDs := []uuid.UUID{}
	trailIDs := []uuid.UUID{}
	for _, c := range classes {
		classIDs = append(classIDs, c.ID)
		profIDs = append(profIDs, types.ResolveProfessorIDs(c)...)
		trailIDs = append(trailIDs, types.ResolveTrailIDs(c)...)
	}

	var (
		counts   map[uuid.UUID]int
		profiles []*types.Profile
		trails   []*types.Trail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = cs.enrollmentRepo.CountByClassIDs(gctx, nil, classIDs)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = cs.profileRepo.GetByIDs(gctx, nil, profIDs)
		return err
	})
	g.Go(func() error {
		var err error
		trails, err = cs.trailRepo.GetByIDs(gctx, nil, trailIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		cs.log.Error("Denormalize classes failed", "error", err)
		return nil, fmt.Errorf("denormalize classes: %w", err)
	}

	profileNames := make(map[uuid.UUID]string, len(profiles))
	for _, p := range profiles {
		profileNames[p.ID] = p.Name
	}
	trailNames := make(map[uuid.UUID]string, len(trails))
	for _, t := range trails {
		trailNames[t.ID] = t.Name
	}

	for _, c := range classes {
		v := types.NewClassView(c, counts[c.ID])
		for _, id := range v.ProfessorIDs {
			v.ProfessorSummaries = append(v.ProfessorSummaries, types.NamedRef{ID: id, Name: profileNames[id]})
		}
		for _, id := range v.TrailIDs {
			v.TrailSummaries = append(v.TrailSummaries, types.NamedRef{ID: id, Name: trailNames[id]})
		}
		views = append(views, v)
	}
	return views, nil
}
