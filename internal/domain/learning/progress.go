package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProgress is the per (user, content) tracking record.
type UserProgress struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_content" json:"user_id"`
	ContentID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_content;index" json:"content_id"`
	Completed           bool      `gorm:"column:completed;not null;default:false" json:"completed"`
	Percentage          int       `gorm:"column:percentage;not null;default:0" json:"percentage"`
	LastPositionSeconds float64   `gorm:"column:last_position_seconds;not null;default:0" json:"last_position_seconds"`
	LastAccessedAt      time.Time `gorm:"column:last_accessed_at;not null" json:"last_accessed_at"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

func (p *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Merge folds an incoming sample into the stored record. Position and access
// time are last-write-wins; completed never reverts and percentage never drops.
func (p *UserProgress) Merge(in UserProgress) {
	p.Completed = p.Completed || in.Completed
	if pct := ClampPercent(in.Percentage); pct > p.Percentage {
		p.Percentage = pct
	}
	if !in.LastAccessedAt.Before(p.LastAccessedAt) {
		p.LastAccessedAt = in.LastAccessedAt
		p.LastPositionSeconds = in.LastPositionSeconds
	}
}
