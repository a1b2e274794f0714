package services

import (
	"context"
	"errors"

	apperr "github.com/yungbote/classroom-backend/internal/pkg/errors"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/store"
)

var (
	ErrNotFound        = apperr.ErrNotFound
	ErrInvalidArgument = apperr.ErrInvalidArgument
	ErrForbidden       = apperr.ErrForbidden
	ErrConflict        = apperr.ErrConflict
	ErrUnauthorized    = apperr.ErrUnauthorized

	ErrAttemptCompleted = apperr.ErrAttemptCompleted
)

// Mirror receives a copy of every remote write after it commits.
type Mirror interface {
	Dispatch(ctx context.Context, cmd store.Command) error
}

// mirrorWrite forwards cmd to m. In demo mode the store owns the catalogue
// and rejects mirrors; rows that predate the process are unknown to it.
func mirrorWrite(ctx context.Context, log *logger.Logger, m Mirror, cmd store.Command) {
	if m == nil {
		return
	}
	err := m.Dispatch(ctx, cmd)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotAuthoritative), errors.Is(err, store.ErrUnknownEntity):
		log.Debug("Mirror write skipped", "command", cmd.Name, "reason", err)
	default:
		log.Warn("Mirror write failed", "command", cmd.Name, "error", err)
	}
}
