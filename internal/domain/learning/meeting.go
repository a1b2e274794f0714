package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingLive      MeetingStatus = "live"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
)

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingScheduled, MeetingLive, MeetingCompleted, MeetingCancelled:
		return true
	default:
		return false
	}
}

var meetingTransitions = map[MeetingStatus][]MeetingStatus{
	MeetingScheduled: {MeetingLive, MeetingCancelled},
	MeetingLive:      {MeetingCompleted, MeetingCancelled},
}

// CanTransition reports whether a meeting may move from one status to another.
func CanTransition(from, to MeetingStatus) bool {
	for _, next := range meetingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Meeting struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ClassID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"class_id"`
	Title           string        `gorm:"column:title;not null" json:"title"`
	Description     string        `gorm:"column:description" json:"description"`
	ScheduledAt     time.Time     `gorm:"column:scheduled_at;not null;index" json:"scheduled_at"`
	DurationMinutes int           `gorm:"column:duration_minutes;not null;default:60" json:"duration_minutes"`
	MeetingURL      string        `gorm:"column:meeting_url" json:"meeting_url,omitempty"`
	Status          MeetingStatus `gorm:"column:status;not null;default:'scheduled';index" json:"status"`
	Capacity        int           `gorm:"column:capacity;not null;default:0" json:"capacity"`
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null" json:"updated_at"`
}

func (Meeting) TableName() string { return "meetings" }

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
