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

type ContentInput struct {
	Title           string            `json:"title"`
	Type            types.ContentType `json:"type"`
	URL             string            `json:"url"`
	DurationSeconds int               `json:"duration_seconds"`
}

type ContentPatch struct {
	Title           *string `json:"title"`
	URL             *string `json:"url"`
	DurationSeconds *int    `json:"duration_seconds"`
}

type ContentService interface {
	ListByModule(ctx context.Context, moduleID uuid.UUID) ([]*types.Content, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Content, error)
	Create(ctx context.Context, moduleID uuid.UUID, in ContentInput) (*types.Content, error)
	Update(ctx context.Context, id uuid.UUID, patch ContentPatch) (*types.Content, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByType(ctx context.Context, moduleIDs []uuid.UUID) (map[types.ContentType]int, error)
}

type contentService struct {
	db          *gorm.DB
	log         *logger.Logger
	moduleRepo  repos.ModuleRepo
	contentRepo repos.ContentRepo
	mirror      Mirror
}

func NewContentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	moduleRepo repos.ModuleRepo,
	contentRepo repos.ContentRepo,
	mirror Mirror,
) ContentService {
	return &contentService{
		db:          db,
		log:         baseLog.With("service", "ContentService"),
		moduleRepo:  moduleRepo,
		contentRepo: contentRepo,
		mirror:      mirror,
	}
}

func (cs *contentService) ListByModule(ctx context.Context, moduleID uuid.UUID) ([]*types.Content, error) {
	contents, err := cs.contentRepo.GetByModuleIDs(ctx, nil, []uuid.UUID{moduleID})
	if err != nil {
		cs.log.Error("List contents failed", "module_id", moduleID, "error", err)
		return nil, fmt.Errorf("list contents: %w", err)
	}
	return contents, nil
}

func (cs *contentService) Get(ctx context.Context, id uuid.UUID) (*types.Content, error) {
	c, err := cs.contentRepo.GetByID(ctx, nil, id)
	if err != nil {
		cs.log.Error("Get content failed", "content_id", id, "error", err)
		return nil, fmt.Errorf("get content: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("content %s: %w", id, ErrNotFound)
	}
	return c, nil
}

func (cs *contentService) Create(ctx context.Context, moduleID uuid.UUID, in ContentInput) (*types.Content, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: content title is required", ErrInvalidArgument)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", ErrInvalidArgument, in.Type)
	}
	if in.DurationSeconds < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", ErrInvalidArgument)
	}
	c := &types.Content{
		ID:              uuid.New(),
		ModuleID:        moduleID,
		Title:           title,
		Type:            in.Type,
		URL:             strings.TrimSpace(in.URL),
		DurationSeconds: in.DurationSeconds,
	}
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		modules, err := cs.moduleRepo.GetByIDs(ctx, tx, []uuid.UUID{moduleID})
		if err != nil {
			return err
		}
		if len(modules) == 0 {
			return fmt.Errorf("module %s: %w", moduleID, ErrNotFound)
		}
		next, err := cs.contentRepo.NextOrderIndex(ctx, tx, moduleID)
		if err != nil {
			return err
		}
		c.OrderIndex = next
		_, err = cs.contentRepo.Create(ctx, tx, []*types.Content{c})
		return err
	})
	if err != nil {
		cs.log.Error("Create content failed", "module_id", moduleID, "error", err)
		return nil, fmt.Errorf("create content: %w", err)
	}
	mirrorWrite(ctx, cs.log, cs.mirror, store.Mirror(store.CmdCreateContent, store.CreateContent{
		ID:              c.ID,
		ModuleID:        c.ModuleID,
		Title:           c.Title,
		Type:            c.Type,
		URL:             c.URL,
		DurationSeconds: c.DurationSeconds,
	}))
	return c, nil
}

func (cs *contentService) Update(ctx context.Context, id uuid.UUID, patch ContentPatch) (*types.Content, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: content title cannot be blank", ErrInvalidArgument)
		}
		updates["title"] = title
	}
	if patch.URL != nil {
		updates["url"] = strings.TrimSpace(*patch.URL)
	}
	if patch.DurationSeconds != nil {
		if *patch.DurationSeconds < 0 {
			return nil, fmt.Errorf("%w: duration cannot be negative", ErrInvalidArgument)
		}
		updates["duration_seconds"] = *patch.DurationSeconds
	}
	if _, err := cs.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := cs.contentRepo.UpdateFields(ctx, nil, id, updates); err != nil {
		cs.log.Error("Update content failed", "content_id", id, "error", err)
		return nil, fmt.Errorf("update content: %w", err)
	}
	return cs.Get(ctx, id)
}

func (cs *contentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := cs.Get(ctx, id); err != nil {
		return err
	}
	if err := cs.contentRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
		cs.log.Error("Delete content failed", "content_id", id, "error", err)
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

func (cs *contentService) CountByType(ctx context.Context, moduleIDs []uuid.UUID) (map[types.ContentType]int, error) {
	counts, err := cs.contentRepo.CountByType(ctx, nil, moduleIDs)
	if err != nil {
		cs.log.Error("Count contents failed", "error", err)
		return nil, fmt.Errorf("count contents: %w", err)
	}
	return counts, nil
}
