package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/observability"
	apperr "github.com/yungbote/classroom-backend/internal/pkg/errors"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// Identity is what the auth provider tells us about a session.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// Sink receives resolved users. The store implements it.
type Sink interface {
	ReplaceCurrentUser(ctx context.Context, cu types.CurrentUser) error
	ClearCurrentUser(ctx context.Context) error
}

type Resolver struct {
	db       *gorm.DB
	log      *logger.Logger
	profiles repos.ProfileRepo
	roles    repos.UserRoleRepo
	sink     Sink
}

func NewResolver(db *gorm.DB, baseLog *logger.Logger, profiles repos.ProfileRepo, roles repos.UserRoleRepo, sink Sink) *Resolver {
	return &Resolver{
		db:       db,
		log:      baseLog.With("service", "SessionResolver"),
		profiles: profiles,
		roles:    roles,
		sink:     sink,
	}
}

// Resolve maps an identity to its local record, creating the profile and a
// default role the first time the user is seen. Creation failures are
// swallowed; read failures are returned.
func (r *Resolver) Resolve(ctx context.Context, id Identity) (types.CurrentUser, error) {
	if id.UserID == uuid.Nil {
		return types.CurrentUser{}, fmt.Errorf("resolve session: %w", apperr.ErrUnauthorized)
	}

	profile, err := r.profiles.GetByID(ctx, r.db, id.UserID)
	if err != nil {
		return types.CurrentUser{}, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		profile = r.createProfile(ctx, id)
	}

	rows, err := r.roles.GetByUserID(ctx, r.db, id.UserID)
	if err != nil {
		return types.CurrentUser{}, fmt.Errorf("fetch roles: %w", err)
	}
	return types.NewCurrentUser(profile, types.RolesFromRows(rows)), nil
}

func (r *Resolver) createProfile(ctx context.Context, id Identity) *types.Profile {
	p := &types.Profile{ID: id.UserID, Name: id.Name, Email: id.Email}
	if p.Name == "" {
		p.Name = id.Email
	}
	if _, err := r.profiles.Create(ctx, r.db, []*types.Profile{p}); err != nil {
		if !apperr.IsUniqueViolation(err) {
			r.log.Warn("Profile auto-create failed", "user_id", id.UserID, "error", err)
		}
		// Another tab may have created it; fall back to whatever is stored.
		if stored, gerr := r.profiles.GetByID(ctx, r.db, id.UserID); gerr == nil && stored != nil {
			return stored
		}
		return p
	}
	role := &types.UserRole{UserID: id.UserID, Role: types.RoleStudent}
	if _, err := r.roles.Create(ctx, r.db, []*types.UserRole{role}); err != nil && !apperr.IsUniqueViolation(err) {
		r.log.Warn("Default role create failed", "user_id", id.UserID, "error", err)
	}
	return p
}

// Handle applies one session event to the sink. When resolution fails the
// previous current user stays in place.
func (r *Resolver) Handle(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case EventEstablished:
		cu, err := r.Resolve(ctx, Identity{UserID: ev.UserID, Email: ev.Email, Name: ev.Name})
		if err != nil {
			r.log.Warn("Session resolution failed; keeping previous user", "user_id", ev.UserID, "error", err)
			return err
		}
		if err := r.sink.ReplaceCurrentUser(ctx, cu); err != nil {
			r.log.Warn("Replace current user failed", "user_id", ev.UserID, "error", err)
			return err
		}
		r.log.Info("Session resolved", "user_id", cu.ID, "role", cu.Role)
		return nil
	case EventCleared:
		if err := r.sink.ClearCurrentUser(ctx); err != nil {
			r.log.Warn("Clear current user failed", "error", err)
			return err
		}
		r.log.Info("Session cleared")
		return nil
	default:
		return fmt.Errorf("unknown session event kind %q", ev.Kind)
	}
}

// Run forwards bus events to Handle until ctx is done.
func (r *Resolver) Run(ctx context.Context, bus Bus) error {
	if err := bus.StartForwarder(ctx, func(ev Event) {
		err := r.Handle(ctx, ev)
		observability.Current().IncSessionEvent(string(ev.Kind), err)
	}); err != nil {
		return fmt.Errorf("start session forwarder: %w", err)
	}
	<-ctx.Done()
	return nil
}
