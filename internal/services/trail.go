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

type TrailInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type TrailService interface {
	List(ctx context.Context) ([]*types.Trail, error)
	Create(ctx context.Context, in TrailInput) (*types.Trail, error)
}

type trailService struct {
	db        *gorm.DB
	log       *logger.Logger
	trailRepo repos.TrailRepo
	mirror    Mirror
}

func NewTrailService(db *gorm.DB, baseLog *logger.Logger, trailRepo repos.TrailRepo, mirror Mirror) TrailService {
	return &trailService{
		db:        db,
		log:       baseLog.With("service", "TrailService"),
		trailRepo: trailRepo,
		mirror:    mirror,
	}
}

func (ts *trailService) List(ctx context.Context) ([]*types.Trail, error) {
	trails, err := ts.trailRepo.List(ctx, nil)
	if err != nil {
		ts.log.Error("List trails failed", "error", err)
		return nil, fmt.Errorf("list trails: %w", err)
	}
	return trails, nil
}

func (ts *trailService) Create(ctx context.Context, in TrailInput) (*types.Trail, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: trail name is required", ErrInvalidArgument)
	}
	t := &types.Trail{ID: uuid.New(), Name: name, Description: in.Description}
	if _, err := ts.trailRepo.Create(ctx, nil, []*types.Trail{t}); err != nil {
		ts.log.Error("Create trail failed", "error", err)
		return nil, fmt.Errorf("create trail: %w", err)
	}
	mirrorWrite(ctx, ts.log, ts.mirror, store.Mirror(store.CmdCreateTrail, store.CreateTrail{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
	}))
	return t, nil
}
