package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classroom-backend/internal/domain"
)

func TestClassRepoCurrentShape(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewClassRepo(db, testutil.Logger(t))

	p1, p2 := uuid.New(), uuid.New()
	tr := testutil.SeedTrail(t, ctx, tx)
	c := testutil.SeedClass(t, ctx, tx, []uuid.UUID{p2, p1}, []uuid.UUID{tr.ID})

	got, err := repo.GetByID(ctx, tx, c.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v row=%v", err, got)
	}
	ids := types.ResolveProfessorIDs(got)
	if len(ids) != 2 || ids[0] != p2 || ids[1] != p1 {
		t.Fatalf("ResolveProfessorIDs: want=[%s %s] got=%v", p2, p1, ids)
	}

	byProf, err := repo.GetByProfessorID(ctx, tx, p1)
	if err != nil || len(byProf) != 1 || byProf[0].ID != c.ID {
		t.Fatalf("GetByProfessorID: err=%v len=%d", err, len(byProf))
	}
	byTrail, err := repo.GetByTrailIDs(ctx, tx, []uuid.UUID{tr.ID})
	if err != nil || len(byTrail) != 1 {
		t.Fatalf("GetByTrailIDs: err=%v len=%d", err, len(byTrail))
	}
}

func TestClassRepoLegacyShape(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewClassRepo(db, testutil.Logger(t))

	prof := uuid.New()
	tr := testutil.SeedTrail(t, ctx, tx)
	c := testutil.SeedLegacyClass(t, ctx, tx, prof, tr.ID)

	byProf, err := repo.GetByProfessorID(ctx, tx, prof)
	if err != nil || len(byProf) != 1 || byProf[0].ID != c.ID {
		t.Fatalf("GetByProfessorID legacy: err=%v len=%d", err, len(byProf))
	}
	if ids := types.ResolveTrailIDs(byProf[0]); len(ids) != 1 || ids[0] != tr.ID {
		t.Fatalf("ResolveTrailIDs legacy: got=%v", ids)
	}

	other := uuid.New()
	if err := repo.ReplaceProfessors(ctx, tx, c.ID, []uuid.UUID{other}); err != nil {
		t.Fatalf("ReplaceProfessors: %v", err)
	}
	if rows, err := repo.GetByProfessorID(ctx, tx, prof); err != nil || len(rows) != 0 {
		t.Fatalf("old legacy professor still matches: err=%v len=%d", err, len(rows))
	}
	got, err := repo.GetByID(ctx, tx, c.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v", err)
	}
	if got.ProfessorID != nil {
		t.Fatalf("legacy professor column should be cleared")
	}
	if ids := types.ResolveProfessorIDs(got); len(ids) != 1 || ids[0] != other {
		t.Fatalf("ResolveProfessorIDs after replace: got=%v", ids)
	}
}

func TestClassRepoListAndDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewClassRepo(db, testutil.Logger(t))

	c := testutil.SeedClass(t, ctx, tx, []uuid.UUID{uuid.New()}, nil)
	if err := repo.UpdateFields(ctx, tx, c.ID, map[string]interface{}{"status": types.ClassPaused}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	paused, err := repo.List(ctx, tx, types.ClassPaused)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, row := range paused {
		if row.ID == c.ID {
			found = true
		}
		if row.Status != types.ClassPaused {
			t.Fatalf("List filter: want=paused got=%s", row.Status)
		}
	}
	if !found {
		t.Fatalf("List: paused class missing")
	}

	testutil.SeedEnrollment(t, ctx, tx, uuid.New(), c.ID)
	if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{c.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if got, err := repo.GetByID(ctx, tx, c.ID); err != nil || got != nil {
		t.Fatalf("after delete: err=%v row=%v", err, got)
	}
	var n int64
	tx.Model(&types.Enrollment{}).Where("class_id = ?", c.ID).Count(&n)
	if n != 0 {
		t.Fatalf("enrollments not removed: %d", n)
	}
}
