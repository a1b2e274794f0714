package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.Profile {
	tb.Helper()
	p := &types.Profile{
		ID:    uuid.New(),
		Name:  "Test User",
		Email: email,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedTrail(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Trail {
	tb.Helper()
	tr := &types.Trail{ID: uuid.New(), Name: "trail"}
	if err := tx.WithContext(ctx).Create(tr).Error; err != nil {
		tb.Fatalf("seed trail: %v", err)
	}
	return tr
}

func SeedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, trailID uuid.UUID, index int) *types.Module {
	tb.Helper()
	m := &types.Module{ID: uuid.New(), TrailID: trailID, Title: "module", OrderIndex: index}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedContent(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, kind types.ContentType, index int) *types.Content {
	tb.Helper()
	c := &types.Content{
		ID:              uuid.New(),
		ModuleID:        moduleID,
		Title:           "content",
		Type:            kind,
		DurationSeconds: 600,
		OrderIndex:      index,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed content: %v", err)
	}
	return c
}

// SeedClass creates a class in the current shape (join rows, no legacy fields).
func SeedClass(tb testing.TB, ctx context.Context, tx *gorm.DB, professorIDs, trailIDs []uuid.UUID) *types.Class {
	tb.Helper()
	c := &types.Class{ID: uuid.New(), Name: "class", Status: types.ClassActive}
	for i, id := range professorIDs {
		c.Professors = append(c.Professors, types.ClassProfessor{ClassID: c.ID, ProfessorID: id, Position: i})
	}
	for i, id := range trailIDs {
		c.Trails = append(c.Trails, types.ClassTrail{ClassID: c.ID, TrailID: id, Position: i})
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed class: %v", err)
	}
	return c
}

// SeedLegacyClass creates a class carrying only the singular legacy columns.
func SeedLegacyClass(tb testing.TB, ctx context.Context, tx *gorm.DB, professorID, trailID uuid.UUID) *types.Class {
	tb.Helper()
	c := &types.Class{
		ID:          uuid.New(),
		Name:        "legacy class",
		Status:      types.ClassActive,
		ProfessorID: &professorID,
		TrailID:     &trailID,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed legacy class: %v", err)
	}
	return c
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID, classID uuid.UUID) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{StudentID: studentID, ClassID: classID, EnrolledAt: time.Now().UTC()}
	e.SetCompleted(nil)
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
