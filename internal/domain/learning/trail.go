package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Trail struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Trail) TableName() string { return "trails" }

func (t *Trail) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Module is an ordered group of content items within a trail.
type Module struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TrailID     uuid.UUID `gorm:"type:uuid;not null;index" json:"trail_id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	OrderIndex  int       `gorm:"column:order_index;not null;default:0" json:"order_index"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Module) TableName() string { return "modules" }

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentDocument ContentType = "document"
	ContentQuiz     ContentType = "quiz"
	ContentLive     ContentType = "live"
)

func (c ContentType) Valid() bool {
	switch c {
	case ContentVideo, ContentDocument, ContentQuiz, ContentLive:
		return true
	default:
		return false
	}
}

// Content is a single learning unit belonging to a module.
type Content struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"module_id"`
	Title           string      `gorm:"column:title;not null" json:"title"`
	Type            ContentType `gorm:"column:type;not null;index" json:"type"`
	URL             string      `gorm:"column:url" json:"url,omitempty"`
	DurationSeconds int         `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`
	OrderIndex      int         `gorm:"column:order_index;not null;default:0" json:"order_index"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}

func (Content) TableName() string { return "contents" }

func (c *Content) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
