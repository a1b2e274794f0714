package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt: CompletedAt, Score and Passed are written together, once.
type QuizAttempt struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	QuizID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	StartedAt   time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Score       *float64       `gorm:"column:score" json:"score,omitempty"`
	Passed      *bool          `gorm:"column:passed" json:"passed,omitempty"`
	Answers     datatypes.JSON `gorm:"column:answers" json:"answers"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempts" }

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *QuizAttempt) IsCompleted() bool { return a != nil && a.CompletedAt != nil }

type QuizQuestion struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	OrderIndex    int            `gorm:"column:order_index;not null;default:0" json:"order_index"`
	Prompt        string         `gorm:"column:prompt;not null" json:"prompt"`
	Options       datatypes.JSON `gorm:"column:options" json:"options"`
	CorrectAnswer datatypes.JSON `gorm:"column:correct_answer" json:"correct_answer,omitempty"`
	Explanation   string         `gorm:"column:explanation" json:"explanation,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (QuizQuestion) TableName() string { return "quiz_questions" }

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// WithoutAnswer returns a copy safe to show to students.
func (q QuizQuestion) WithoutAnswer() QuizQuestion {
	q.CorrectAnswer = nil
	q.Explanation = ""
	return q
}
