package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/store"
	"gorm.io/gorm"
)

type ModuleInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ModulePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type ModuleService interface {
	ListByTrail(ctx context.Context, trailID uuid.UUID) ([]*types.Module, error)
	Create(ctx context.Context, trailID uuid.UUID, in ModuleInput) (*types.Module, error)
	Update(ctx context.Context, id uuid.UUID, patch ModulePatch) (*types.Module, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, trailID uuid.UUID, orderedIDs []uuid.UUID) ([]*types.Module, error)
}

type moduleService struct {
	db          *gorm.DB
	log         *logger.Logger
	trailRepo   repos.TrailRepo
	moduleRepo  repos.ModuleRepo
	contentRepo repos.ContentRepo
	mirror      Mirror
}

func NewModuleService(
	db *gorm.DB,
	baseLog *logger.Logger,
	trailRepo repos.TrailRepo,
	moduleRepo repos.ModuleRepo,
	contentRepo repos.ContentRepo,
	mirror Mirror,
) ModuleService {
	return &moduleService{
		db:          db,
		log:         baseLog.With("service", "ModuleService"),
		trailRepo:   trailRepo,
		moduleRepo:  moduleRepo,
		contentRepo: contentRepo,
		mirror:      mirror,
	}
}

func (ms *moduleService) ListByTrail(ctx context.Context, trailID uuid.UUID) ([]*types.Module, error) {
	modules, err := ms.moduleRepo.GetByTrailIDs(ctx, nil, []uuid.UUID{trailID})
	if err != nil {
		ms.log.Error("List modules failed", "trail_id", trailID, "error", err)
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return modules, nil
}

func (ms *moduleService) Create(ctx context.Context, trailID uuid.UUID, in ModuleInput) (*types.Module, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: module title is required", ErrInvalidArgument)
	}
	m := &types.Module{ID: uuid.New(), TrailID: trailID, Title: title, Description: in.Description}
	err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trails, err := ms.trailRepo.GetByIDs(ctx, tx, []uuid.UUID{trailID})
		if err != nil {
			return err
		}
		if len(trails) == 0 {
			return fmt.Errorf("trail %s: %w", trailID, ErrNotFound)
		}
		next, err := ms.moduleRepo.NextOrderIndex(ctx, tx, trailID)
		if err != nil {
			return err
		}
		m.OrderIndex = next
		_, err = ms.moduleRepo.Create(ctx, tx, []*types.Module{m})
		return err
	})
	if err != nil {
		ms.log.Error("Create module failed", "trail_id", trailID, "error", err)
		return nil, fmt.Errorf("create module: %w", err)
	}
	mirrorWrite(ctx, ms.log, ms.mirror, store.Mirror(store.CmdCreateModule, store.CreateModule{
		ID:      m.ID,
		TrailID: m.TrailID,
		Title:   m.Title,
	}))
	return m, nil
}

func (ms *moduleService) Update(ctx context.Context, id uuid.UUID, patch ModulePatch) (*types.Module, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: module title cannot be blank", ErrInvalidArgument)
		}
		updates["title"] = title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	m, err := ms.get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := ms.moduleRepo.UpdateFields(ctx, nil, id, updates); err != nil {
		ms.log.Error("Update module failed", "module_id", id, "error", err)
		return nil, fmt.Errorf("update module: %w", err)
	}
	return ms.get(ctx, nil, m.ID)
}

func (ms *moduleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := ms.get(ctx, nil, id); err != nil {
		return err
	}
	err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ms.contentRepo.FullDeleteByModuleIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return err
		}
		return ms.moduleRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{id})
	})
	if err != nil {
		ms.log.Error("Delete module failed", "module_id", id, "error", err)
		return fmt.Errorf("delete module: %w", err)
	}
	return nil
}

// Reorder requires orderedIDs to be exactly the trail's modules.
func (ms *moduleService) Reorder(ctx context.Context, trailID uuid.UUID, orderedIDs []uuid.UUID) ([]*types.Module, error) {
	current, err := ms.ListByTrail(ctx, trailID)
	if err != nil {
		return nil, err
	}
	if len(current) != len(orderedIDs) {
		return nil, fmt.Errorf("%w: expected %d module ids, got %d", ErrInvalidArgument, len(current), len(orderedIDs))
	}
	known := make(map[uuid.UUID]bool, len(current))
	for _, m := range current {
		known[m.ID] = true
	}
	for _, id := range orderedIDs {
		if !known[id] {
			return nil, fmt.Errorf("%w: module %s is not in trail %s or repeated", ErrInvalidArgument, id, trailID)
		}
		delete(known, id)
	}
	if err := ms.moduleRepo.UpdateOrder(ctx, nil, trailID, orderedIDs); err != nil {
		ms.log.Error("Reorder modules failed", "trail_id", trailID, "error", err)
		return nil, fmt.Errorf("reorder modules: %w", err)
	}
	return ms.ListByTrail(ctx, trailID)
}

func (ms *moduleService) get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Module, error) {
	found, err := ms.moduleRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		ms.log.Error("Get module failed", "module_id", id, "error", err)
		return nil, fmt.Errorf("get module: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("module %s: %w", id, ErrNotFound)
	}
	return found[0], nil
}
