package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/ctxutil"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/store"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// UserView is a profile with every role row, primary first.
type UserView struct {
	types.Profile
	Role  types.Role   `json:"role"`
	Roles []types.Role `json:"roles"`
}

type UserService interface {
	List(ctx context.Context) ([]UserView, error)
	Get(ctx context.Context, id uuid.UUID) (*UserView, error)
	SetRoles(ctx context.Context, id uuid.UUID, roles []types.Role) (*UserView, error)
	ByRole(ctx context.Context, role types.Role) ([]UserView, error)
	Me(ctx context.Context) (*UserView, error)
}

type userService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	roleRepo    repos.UserRoleRepo
	mirror      Mirror
}

func NewUserService(
	db *gorm.DB,
	baseLog *logger.Logger,
	profileRepo repos.ProfileRepo,
	roleRepo repos.UserRoleRepo,
	mirror Mirror,
) UserService {
	return &userService{
		db:          db,
		log:         baseLog.With("service", "UserService"),
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
		mirror:      mirror,
	}
}

func (us *userService) List(ctx context.Context) ([]UserView, error) {
	profiles, err := us.profileRepo.List(ctx, nil)
	if err != nil {
		us.log.Error("List profiles failed", "error", err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	return us.withRoles(ctx, profiles)
}

func (us *userService) Get(ctx context.Context, id uuid.UUID) (*UserView, error) {
	var (
		profile *types.Profile
		rows    []*types.UserRole
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = us.profileRepo.GetByID(gctx, nil, id)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = us.roleRepo.GetByUserID(gctx, nil, id)
		return err
	})
	if err := g.Wait(); err != nil {
		us.log.Error("Get user failed", "user_id", id, "error", err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	view := newUserView(profile, types.RolesFromRows(rows))
	return &view, nil
}

func (us *userService) SetRoles(ctx context.Context, id uuid.UUID, roles []types.Role) (*UserView, error) {
	normalized := types.NormalizeRoles(roles)
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := us.profileRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		_, err = us.roleRepo.ReplaceForUser(ctx, tx, id, normalized)
		return err
	})
	if err != nil {
		us.log.Error("Set roles failed", "user_id", id, "error", err)
		return nil, fmt.Errorf("set roles: %w", err)
	}
	mirrorWrite(ctx, us.log, us.mirror, store.Mirror(store.CmdSetUserRoles, store.SetUserRoles{UserID: id, Roles: normalized}))
	return us.Get(ctx, id)
}

// ByRole keeps users holding role anywhere in their role list.
func (us *userService) ByRole(ctx context.Context, role types.Role) ([]UserView, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, role)
	}
	all, err := us.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserView, 0, len(all))
	for _, u := range all {
		if types.HasRole(u.Roles, role) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (us *userService) Me(ctx context.Context) (*UserView, error) {
	id := ctxutil.UserID(ctx)
	if id == uuid.Nil {
		return nil, ErrUnauthorized
	}
	return us.Get(ctx, id)
}

func (us *userService) withRoles(ctx context.Context, profiles []*types.Profile) ([]UserView, error) {
	ids := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	rows, err := us.roleRepo.GetByUserIDs(ctx, nil, ids)
	if err != nil {
		us.log.Error("Load roles failed", "error", err)
		return nil, fmt.Errorf("load roles: %w", err)
	}
	byUser := make(map[uuid.UUID][]*types.UserRole, len(profiles))
	for _, r := range rows {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	out := make([]UserView, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, newUserView(p, types.RolesFromRows(byUser[p.ID])))
	}
	return out, nil
}

func newUserView(p *types.Profile, roles []types.Role) UserView {
	cu := types.NewCurrentUser(p, roles)
	return UserView{Profile: *p, Role: cu.Role, Roles: cu.Roles}
}
