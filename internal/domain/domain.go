package domain

import (
	"github.com/yungbote/classroom-backend/internal/domain/learning"
	"github.com/yungbote/classroom-backend/internal/domain/user"
)

type (
	Profile     = user.Profile
	UserRole    = user.UserRole
	Role        = user.Role
	CurrentUser = user.CurrentUser

	Trail        = learning.Trail
	Module       = learning.Module
	Content      = learning.Content
	ContentType  = learning.ContentType
	Class        = learning.Class
	ClassStatus  = learning.ClassStatus
	ClassView    = learning.ClassView
	NamedRef     = learning.NamedRef
	Enrollment   = learning.Enrollment
	UserProgress = learning.UserProgress
	Meeting      = learning.Meeting
	QuizAttempt  = learning.QuizAttempt
	QuizQuestion = learning.QuizQuestion
)

type (
	ClassProfessor = learning.ClassProfessor
	ClassTrail     = learning.ClassTrail
	MeetingStatus  = learning.MeetingStatus
)

const (
	RoleAdmin     = user.RoleAdmin
	RoleProfessor = user.RoleProfessor
	RoleStudent   = user.RoleStudent

	ClassActive    = learning.ClassActive
	ClassCompleted = learning.ClassCompleted
	ClassPaused    = learning.ClassPaused

	ContentVideo    = learning.ContentVideo
	ContentDocument = learning.ContentDocument
	ContentQuiz     = learning.ContentQuiz
	ContentLive     = learning.ContentLive

	MeetingScheduled = learning.MeetingScheduled
	MeetingLive      = learning.MeetingLive
	MeetingCompleted = learning.MeetingCompleted
	MeetingCancelled = learning.MeetingCancelled
)

// Models lists every table owned by this service, in migration order.
func Models() []any {
	return []any{
		&user.Profile{},
		&user.UserRole{},
		&learning.Trail{},
		&learning.Module{},
		&learning.Content{},
		&learning.Class{},
		&learning.ClassProfessor{},
		&learning.ClassTrail{},
		&learning.Enrollment{},
		&learning.UserProgress{},
		&learning.Meeting{},
		&learning.QuizQuestion{},
		&learning.QuizAttempt{},
	}
}

var (
	ResolveProfessorIDs = learning.ResolveProfessorIDs
	ResolveTrailIDs     = learning.ResolveTrailIDs
	TaughtBy            = learning.TaughtBy
	NewClassView        = learning.NewClassView
	CompletionRatio     = learning.CompletionRatio
	ClampPercent        = learning.ClampPercent
	CanTransition       = learning.CanTransition

	NormalizeRoles = user.NormalizeRoles
	PrimaryRole    = user.PrimaryRole
	NewCurrentUser = user.NewCurrentUser
	HasRole        = user.HasRole
	RolesFromRows  = user.RolesFromRows
	ParseRole      = user.ParseRole
)
