package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassStatus string

const (
	ClassActive    ClassStatus = "active"
	ClassCompleted ClassStatus = "completed"
	ClassPaused    ClassStatus = "paused"
)

func (s ClassStatus) Valid() bool {
	switch s {
	case ClassActive, ClassCompleted, ClassPaused:
		return true
	default:
		return false
	}
}

// Class keeps the legacy singular professor/trail columns alongside the join
// tables. Read both through ResolveProfessorIDs / ResolveTrailIDs.
type Class struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string      `gorm:"column:name;not null" json:"name"`
	Description string      `gorm:"column:description" json:"description"`
	Status      ClassStatus `gorm:"column:status;not null;default:'active';index" json:"status"`
	StartDate   *time.Time  `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate     *time.Time  `gorm:"column:end_date" json:"end_date,omitempty"`

	ProfessorID *uuid.UUID `gorm:"type:uuid;column:professor_id;index" json:"professor_id,omitempty"`
	TrailID     *uuid.UUID `gorm:"type:uuid;column:trail_id;index" json:"trail_id,omitempty"`

	Professors []ClassProfessor `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"-"`
	Trails     []ClassTrail     `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Class) TableName() string { return "classes" }

func (c *Class) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type ClassProfessor struct {
	ClassID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"class_id"`
	ProfessorID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"professor_id"`
	Position    int       `gorm:"column:position;not null;default:0" json:"position"`
}

func (ClassProfessor) TableName() string { return "class_professors" }

type ClassTrail struct {
	ClassID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"class_id"`
	TrailID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"trail_id"`
	Position int       `gorm:"column:position;not null;default:0" json:"position"`
}

func (ClassTrail) TableName() string { return "class_trails" }

// NamedRef is an id with its display name.
type NamedRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ClassView is the denormalized read shape served by the class hook.
type ClassView struct {
	Class
	ProfessorIDs       []uuid.UUID `json:"professor_ids"`
	TrailIDs           []uuid.UUID `json:"trail_ids"`
	ProfessorSummaries []NamedRef  `json:"professors"`
	TrailSummaries     []NamedRef  `json:"trails"`
	StudentCount       int         `json:"student_count"`
}
