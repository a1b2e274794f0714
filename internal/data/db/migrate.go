package db

import (
	"fmt"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func EnsurePostgresIndexes(db *gorm.DB) error {
	// Open attempts per user/quiz are looked up on every answer save.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_quiz_attempts_open
		ON quiz_attempts (user_id, quiz_id)
		WHERE completed_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_quiz_attempts_open: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_meetings_upcoming
		ON meetings (scheduled_at)
		WHERE status IN ('scheduled', 'live');
	`).Error; err != nil {
		return fmt.Errorf("create idx_meetings_upcoming: %w", err)
	}
	return nil
}
