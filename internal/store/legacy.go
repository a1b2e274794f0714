package store

import (
	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
)

// LegacyClassView is the singular professor/trail shape older consumers read.
// There is no write path back from it.
type LegacyClassView struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Status       types.ClassStatus `json:"status"`
	ProfessorID  *uuid.UUID        `json:"professor_id"`
	TrailID      *uuid.UUID        `json:"trail_id"`
	StudentCount int               `json:"student_count"`
}

func LegacyClass(c Class, studentCount int) LegacyClassView {
	v := LegacyClassView{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Status:       c.Status,
		StudentCount: studentCount,
	}
	if len(c.ProfessorIDs) > 0 {
		id := c.ProfessorIDs[0]
		v.ProfessorID = &id
	}
	if len(c.TrailIDs) > 0 {
		id := c.TrailIDs[0]
		v.TrailID = &id
	}
	return v
}
