package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/http"
	httpH "github.com/yungbote/classroom-backend/internal/http/handlers"
	httpMW "github.com/yungbote/classroom-backend/internal/http/middleware"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/session"
	"github.com/yungbote/classroom-backend/internal/store"
	"github.com/yungbote/classroom-backend/internal/tracking"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Session  *httpH.SessionHandler
	Class    *httpH.ClassHandler
	Trail    *httpH.TrailHandler
	Module   *httpH.ModuleHandler
	Content  *httpH.ContentHandler
	Meeting  *httpH.MeetingHandler
	User     *httpH.UserHandler
	Quiz     *httpH.QuizHandler
	Playback *httpH.PlaybackHandler
	Demo     *httpH.DemoHandler
}

func wireMiddleware(log *logger.Logger, cfg Config, svc Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecret, cfg.JWTIssuer, svc.User),
	}
}

func wireHandlers(
	log *logger.Logger,
	db *gorm.DB,
	svc Services,
	bus session.Bus,
	resolver *session.Resolver,
	st *store.Store,
	registry *tracking.Registry,
	metrics *observability.Metrics,
) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		Session:  httpH.NewSessionHandler(bus, resolver, st),
		Class:    httpH.NewClassHandler(log, svc.Class, svc.Meeting, svc.Enrollment),
		Trail:    httpH.NewTrailHandler(log, svc.Trail, svc.Module),
		Module:   httpH.NewModuleHandler(log, svc.Module, svc.Content),
		Content:  httpH.NewContentHandler(log, svc.Content),
		Meeting:  httpH.NewMeetingHandler(log, svc.Meeting),
		User:     httpH.NewUserHandler(log, svc.User),
		Quiz:     httpH.NewQuizHandler(log, svc.Quiz, svc.User),
		Playback: httpH.NewPlaybackHandler(log, registry, svc.Progress),
		Demo:     httpH.NewDemoHandler(log, st, metrics),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, mw Middleware, metrics *observability.Metrics) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		Metrics:         metrics,
		AuthMiddleware:  mw.Auth,
		HealthHandler:   handlers.Health,
		SessionHandler:  handlers.Session,
		ClassHandler:    handlers.Class,
		TrailHandler:    handlers.Trail,
		ModuleHandler:   handlers.Module,
		ContentHandler:  handlers.Content,
		MeetingHandler:  handlers.Meeting,
		UserHandler:     handlers.User,
		QuizHandler:     handlers.Quiz,
		PlaybackHandler: handlers.Playback,
		DemoHandler:     handlers.Demo,
	})
}
