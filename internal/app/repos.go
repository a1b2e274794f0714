package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/data/repos"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type Repos struct {
	Profile  repos.ProfileRepo
	UserRole repos.UserRoleRepo

	Trail   repos.TrailRepo
	Module  repos.ModuleRepo
	Content repos.ContentRepo

	Class        repos.ClassRepo
	Enrollment   repos.EnrollmentRepo
	UserProgress repos.UserProgressRepo
	Meeting      repos.MeetingRepo

	QuizQuestion repos.QuizQuestionRepo
	QuizAttempt  repos.QuizAttemptRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Profile:      repos.NewProfileRepo(db, log),
		UserRole:     repos.NewUserRoleRepo(db, log),
		Trail:        repos.NewTrailRepo(db, log),
		Module:       repos.NewModuleRepo(db, log),
		Content:      repos.NewContentRepo(db, log),
		Class:        repos.NewClassRepo(db, log),
		Enrollment:   repos.NewEnrollmentRepo(db, log),
		UserProgress: repos.NewUserProgressRepo(db, log),
		Meeting:      repos.NewMeetingRepo(db, log),
		QuizQuestion: repos.NewQuizQuestionRepo(db, log),
		QuizAttempt:  repos.NewQuizAttemptRepo(db, log),
	}
}
