package learning

import (
	"sort"

	"github.com/google/uuid"
)

// RefShape tags which schema generation a class reference was written in.
type RefShape int

const (
	RefShapeNone RefShape = iota
	RefShapeLegacy
	RefShapeCurrent
)

func (s RefShape) String() string {
	switch s {
	case RefShapeLegacy:
		return "legacy"
	case RefShapeCurrent:
		return "current"
	default:
		return "none"
	}
}

// Refs holds both the legacy singular field and the current plural field.
// A non-empty Current wins; Legacy is only read when Current is empty.
type Refs struct {
	Legacy  *uuid.UUID
	Current []uuid.UUID
}

func (r Refs) Shape() RefShape {
	if len(dedupe(r.Current)) > 0 {
		return RefShapeCurrent
	}
	if r.Legacy != nil && *r.Legacy != uuid.Nil {
		return RefShapeLegacy
	}
	return RefShapeNone
}

// Resolve returns the ordered, duplicate-free id list. It never returns nil.
func (r Refs) Resolve() []uuid.UUID {
	switch r.Shape() {
	case RefShapeCurrent:
		return dedupe(r.Current)
	case RefShapeLegacy:
		return []uuid.UUID{*r.Legacy}
	default:
		return []uuid.UUID{}
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func ProfessorRefs(c *Class) Refs {
	if c == nil {
		return Refs{}
	}
	rows := append([]ClassProfessor(nil), c.Professors...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProfessorID)
	}
	return Refs{Legacy: c.ProfessorID, Current: ids}
}

func TrailRefs(c *Class) Refs {
	if c == nil {
		return Refs{}
	}
	rows := append([]ClassTrail(nil), c.Trails...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.TrailID)
	}
	return Refs{Legacy: c.TrailID, Current: ids}
}

// ResolveProfessorIDs is the single read path for a class's professors.
func ResolveProfessorIDs(c *Class) []uuid.UUID { return ProfessorRefs(c).Resolve() }

// ResolveTrailIDs is the single read path for a class's trails.
func ResolveTrailIDs(c *Class) []uuid.UUID { return TrailRefs(c).Resolve() }

func containsID(ids []uuid.UUID, want uuid.UUID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

// TaughtBy reports whether professorID teaches the class under either shape.
func TaughtBy(c *Class, professorID uuid.UUID) bool {
	return containsID(ResolveProfessorIDs(c), professorID)
}

// NewClassView builds the read shape for a class and its enrollment count.
func NewClassView(c *Class, studentCount int) ClassView {
	return ClassView{
		Class:              *c,
		ProfessorIDs:       ResolveProfessorIDs(c),
		TrailIDs:           ResolveTrailIDs(c),
		ProfessorSummaries: []NamedRef{},
		TrailSummaries:     []NamedRef{},
		StudentCount:       studentCount,
	}
}
