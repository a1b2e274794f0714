package repos

import (
	"github.com/yungbote/classroom-backend/internal/data/repos/learning"
	"github.com/yungbote/classroom-backend/internal/data/repos/user"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ProfileRepo = user.ProfileRepo
type UserRoleRepo = user.UserRoleRepo

type TrailRepo = learning.TrailRepo
type ModuleRepo = learning.ModuleRepo
type ContentRepo = learning.ContentRepo

type ClassRepo = learning.ClassRepo
type EnrollmentRepo = learning.EnrollmentRepo
type UserProgressRepo = learning.UserProgressRepo
type MeetingRepo = learning.MeetingRepo

type QuizQuestionRepo = learning.QuizQuestionRepo
type QuizAttemptRepo = learning.QuizAttemptRepo

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return user.NewProfileRepo(db, baseLog)
}
func NewUserRoleRepo(db *gorm.DB, baseLog *logger.Logger) UserRoleRepo {
	return user.NewUserRoleRepo(db, baseLog)
}

func NewTrailRepo(db *gorm.DB, baseLog *logger.Logger) TrailRepo {
	return learning.NewTrailRepo(db, baseLog)
}
func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return learning.NewModuleRepo(db, baseLog)
}
func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return learning.NewContentRepo(db, baseLog)
}

func NewClassRepo(db *gorm.DB, baseLog *logger.Logger) ClassRepo {
	return learning.NewClassRepo(db, baseLog)
}
func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return learning.NewEnrollmentRepo(db, baseLog)
}
func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return learning.NewUserProgressRepo(db, baseLog)
}
func NewMeetingRepo(db *gorm.DB, baseLog *logger.Logger) MeetingRepo {
	return learning.NewMeetingRepo(db, baseLog)
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return learning.NewQuizQuestionRepo(db, baseLog)
}
func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return learning.NewQuizAttemptRepo(db, baseLog)
}
