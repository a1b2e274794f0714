package learning

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Enrollment struct {
	StudentID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"student_id"`
	ClassID             uuid.UUID      `gorm:"type:uuid;primaryKey;index" json:"class_id"`
	Progress            int            `gorm:"column:progress;not null;default:0" json:"progress"`
	FinalGrade          *float64       `gorm:"column:final_grade" json:"final_grade,omitempty"`
	CompletedContentIDs datatypes.JSON `gorm:"column:completed_content_ids" json:"completed_content_ids"`
	EnrolledAt          time.Time      `gorm:"column:enrolled_at;not null" json:"enrolled_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollments" }

// CompletedIDs decodes the completed-content set. Malformed JSON reads as empty.
func (e *Enrollment) CompletedIDs() []uuid.UUID {
	if e == nil || len(e.CompletedContentIDs) == 0 {
		return []uuid.UUID{}
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(e.CompletedContentIDs, &ids); err != nil {
		return []uuid.UUID{}
	}
	return dedupe(ids)
}

// AddCompleted merges ids into the completed set and reports whether it grew.
func (e *Enrollment) AddCompleted(ids ...uuid.UUID) bool {
	current := e.CompletedIDs()
	merged := dedupe(append(append([]uuid.UUID(nil), current...), ids...))
	if len(merged) == len(current) {
		return false
	}
	e.SetCompleted(merged)
	return true
}

func (e *Enrollment) SetCompleted(ids []uuid.UUID) {
	raw, _ := json.Marshal(dedupe(ids))
	e.CompletedContentIDs = datatypes.JSON(raw)
}

// RaiseProgress applies a tracking-derived value; it never lowers progress.
func (e *Enrollment) RaiseProgress(p int) bool {
	p = ClampPercent(p)
	if p <= e.Progress {
		return false
	}
	e.Progress = p
	return true
}

// CompletionRatio is the percentage of total content items completed.
func CompletionRatio(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return ClampPercent(int(float64(completed) / float64(total) * 100))
}

func ClampPercent(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
