package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
	"github.com/yungbote/classroom-backend/internal/store"
	"github.com/yungbote/classroom-backend/internal/tracking"
)

type Services struct {
	User       services.UserService
	Class      services.ClassService
	Trail      services.TrailService
	Module     services.ModuleService
	Content    services.ContentService
	Meeting    services.MeetingService
	Enrollment services.EnrollmentService
	Quiz       services.QuizService
	Progress   services.ProgressService
}

func wireServices(db *gorm.DB, log *logger.Logger, repos Repos, mirror services.Mirror) Services {
	log.Info("Wiring services...")
	return Services{
		User:       services.NewUserService(db, log, repos.Profile, repos.UserRole, mirror),
		Class:      services.NewClassService(db, log, repos.Class, repos.Enrollment, repos.Profile, repos.Trail, mirror),
		Trail:      services.NewTrailService(db, log, repos.Trail, mirror),
		Module:     services.NewModuleService(db, log, repos.Trail, repos.Module, repos.Content, mirror),
		Content:    services.NewContentService(db, log, repos.Module, repos.Content, mirror),
		Meeting:    services.NewMeetingService(db, log, repos.Class, repos.Meeting, mirror),
		Enrollment: services.NewEnrollmentService(db, log, repos.Class, repos.Profile, repos.Enrollment, mirror),
		Quiz:       services.NewQuizService(db, log, repos.Content, repos.QuizQuestion, repos.QuizAttempt),
		Progress:   services.NewProgressService(db, log, repos.UserProgress, repos.Content, repos.Module, repos.Class, repos.Enrollment),
	}
}

// countingMirror forwards confirmed writes to the store and counts them.
type countingMirror struct {
	store   *store.Store
	metrics *observability.Metrics
}

func (m countingMirror) Dispatch(ctx context.Context, cmd store.Command) error {
	err := m.store.Dispatch(ctx, cmd)
	m.metrics.IncStoreCommand(string(cmd.Name), string(cmd.Origin), err)
	return err
}

// observedPersister records the outcome of every progress write.
func observedPersister(p tracking.Persister, metrics *observability.Metrics) tracking.Persister {
	return tracking.PersisterFunc(func(ctx context.Context, rec tracking.Record) error {
		err := p.Persist(ctx, rec)
		metrics.ObserveProgressPersist(err)
		return err
	})
}
