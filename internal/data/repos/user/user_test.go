package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classroom-backend/internal/domain"
)

func TestProfileRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewProfileRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, []*types.Profile{
		{ID: uuid.New(), Name: "Ana", Email: "profilerepo@example.com"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 profile, got %d", len(created))
	}

	got, err := repo.GetByID(ctx, tx, created[0].ID)
	if err != nil || got == nil || got.Email != "profilerepo@example.com" {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}

	missing, err := repo.GetByID(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("GetByID (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByID (missing): expected nil, got %+v", missing)
	}

	if err := repo.UpdateFields(ctx, tx, created[0].ID, map[string]interface{}{"name": "Ana Maria"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, _ = repo.GetByID(ctx, tx, created[0].ID)
	if got.Name != "Ana Maria" {
		t.Fatalf("UpdateFields: want=%q got=%q", "Ana Maria", got.Name)
	}
}

func TestUserRoleRepoKeepsOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRoleRepo(db, testutil.Logger(t))
	ctx := context.Background()
	p := testutil.SeedProfile(t, ctx, tx, "rolerepo@example.com")

	if _, err := repo.ReplaceForUser(ctx, tx, p.ID, []types.Role{types.RoleProfessor, types.RoleAdmin}); err != nil {
		t.Fatalf("ReplaceForUser: %v", err)
	}
	rows, err := repo.GetByUserID(ctx, tx, p.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(rows) != 2 || rows[0].Role != types.RoleProfessor || rows[1].Role != types.RoleAdmin {
		t.Fatalf("GetByUserID: unexpected order %+v", rows)
	}

	if _, err := repo.ReplaceForUser(ctx, tx, p.ID, []types.Role{types.RoleStudent}); err != nil {
		t.Fatalf("ReplaceForUser (second): %v", err)
	}
	rows, _ = repo.GetByUserID(ctx, tx, p.ID)
	if len(rows) != 1 || rows[0].Role != types.RoleStudent {
		t.Fatalf("ReplaceForUser must replace, got %+v", rows)
	}

	if _, err := repo.Create(ctx, tx, []*types.UserRole{{UserID: p.ID, Role: types.RoleStudent}}); err == nil {
		t.Fatalf("Create duplicate role: expected unique violation")
	}
}
