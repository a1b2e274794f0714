package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/store"
	"gorm.io/gorm"
)

type recordingMirror struct {
	mu   sync.Mutex
	cmds []store.Command
	err  error
}

func (m *recordingMirror) Dispatch(_ context.Context, cmd store.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmds = append(m.cmds, cmd)
	return m.err
}

func (m *recordingMirror) names() []store.CommandName {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.CommandName, 0, len(m.cmds))
	for _, c := range m.cmds {
		out = append(out, c.Name)
	}
	return out
}

// env wires services against the shared test database. Services open their
// own transactions, so tests isolate by using fresh ids instead of Tx.
type env struct {
	db     *gorm.DB
	log    *logger.Logger
	mirror *recordingMirror

	profiles    repos.ProfileRepo
	roles       repos.UserRoleRepo
	trails      repos.TrailRepo
	modules     repos.ModuleRepo
	contents    repos.ContentRepo
	classes     repos.ClassRepo
	enrollments repos.EnrollmentRepo
	progress    repos.UserProgressRepo
	meetings    repos.MeetingRepo
	questions   repos.QuizQuestionRepo
	attempts    repos.QuizAttemptRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &env{
		db:          db,
		log:         log,
		mirror:      &recordingMirror{},
		profiles:    repos.NewProfileRepo(db, log),
		roles:       repos.NewUserRoleRepo(db, log),
		trails:      repos.NewTrailRepo(db, log),
		modules:     repos.NewModuleRepo(db, log),
		contents:    repos.NewContentRepo(db, log),
		classes:     repos.NewClassRepo(db, log),
		enrollments: repos.NewEnrollmentRepo(db, log),
		progress:    repos.NewUserProgressRepo(db, log),
		meetings:    repos.NewMeetingRepo(db, log),
		questions:   repos.NewQuizQuestionRepo(db, log),
		attempts:    repos.NewQuizAttemptRepo(db, log),
	}
}

func (e *env) classService() ClassService {
	return NewClassService(e.db, e.log, e.classes, e.enrollments, e.profiles, e.trails, e.mirror)
}

func (e *env) uniqueEmail() string {
	return uuid.NewString() + "@example.com"
}

func containsID(ids []uuid.UUID, want uuid.UUID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
