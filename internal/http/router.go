package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/classroom-backend/internal/domain"
	httpH "github.com/yungbote/classroom-backend/internal/http/handlers"
	httpMW "github.com/yungbote/classroom-backend/internal/http/middleware"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	SessionHandler  *httpH.SessionHandler
	ClassHandler    *httpH.ClassHandler
	TrailHandler    *httpH.TrailHandler
	ModuleHandler   *httpH.ModuleHandler
	ContentHandler  *httpH.ContentHandler
	MeetingHandler  *httpH.MeetingHandler
	UserHandler     *httpH.UserHandler
	QuizHandler     *httpH.QuizHandler
	PlaybackHandler *httpH.PlaybackHandler
	DemoHandler     *httpH.DemoHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api")
	staff := func(h gin.HandlerFunc) []gin.HandlerFunc { return []gin.HandlerFunc{h} }
	admin := staff
	if am := cfg.AuthMiddleware; am != nil {
		protected.Use(am.RequireAuth())
		staff = func(h gin.HandlerFunc) []gin.HandlerFunc {
			return []gin.HandlerFunc{am.RequireRole(types.RoleAdmin, types.RoleProfessor), h}
		}
		admin = func(h gin.HandlerFunc) []gin.HandlerFunc {
			return []gin.HandlerFunc{am.RequireRole(types.RoleAdmin), h}
		}
	}

	// Session
	if h := cfg.SessionHandler; h != nil {
		protected.POST("/session", h.Establish)
		protected.DELETE("/session", h.Clear)
		protected.GET("/session/current", h.Current)
		protected.GET("/me", h.Me)
	}

	// Classes
	if h := cfg.ClassHandler; h != nil {
		protected.GET("/classes", h.List)
		protected.POST("/classes", admin(h.Create)...)
		protected.GET("/classes/:id", h.Get)
		protected.PATCH("/classes/:id", admin(h.Update)...)
		protected.DELETE("/classes/:id", admin(h.Delete)...)
		protected.GET("/classes/:id/meetings", h.Meetings)
		protected.GET("/classes/:id/enrollments", h.Enrollments)
		protected.POST("/classes/:id/enrollments", staff(h.Enroll)...)
		protected.PATCH("/classes/:id/enrollments/:student_id", staff(h.UpdateEnrollment)...)
		protected.DELETE("/classes/:id/enrollments/:student_id", staff(h.Unenroll)...)
	}

	// Catalogue
	if h := cfg.TrailHandler; h != nil {
		protected.GET("/trails", h.List)
		protected.POST("/trails", staff(h.Create)...)
		protected.GET("/trails/:id/modules", h.Modules)
		protected.POST("/trails/:id/modules", staff(h.CreateModule)...)
		protected.PUT("/trails/:id/modules/order", staff(h.ReorderModules)...)
	}
	if h := cfg.ModuleHandler; h != nil {
		protected.PATCH("/modules/:id", staff(h.Update)...)
		protected.DELETE("/modules/:id", staff(h.Delete)...)
		protected.GET("/modules/:id/contents", h.Contents)
		protected.GET("/modules/:id/contents/counts", h.ContentCounts)
		protected.POST("/modules/:id/contents", staff(h.CreateContent)...)
	}
	if h := cfg.ContentHandler; h != nil {
		protected.PATCH("/contents/:id", staff(h.Update)...)
		protected.DELETE("/contents/:id", staff(h.Delete)...)
	}

	// Meetings
	if h := cfg.MeetingHandler; h != nil {
		protected.GET("/meetings/upcoming", h.Upcoming)
		protected.POST("/meetings", staff(h.Create)...)
		protected.PATCH("/meetings/:id", staff(h.Update)...)
		protected.POST("/meetings/:id/status", staff(h.Transition)...)
		protected.DELETE("/meetings/:id", staff(h.Delete)...)
	}

	// Users
	if h := cfg.UserHandler; h != nil {
		protected.GET("/users", staff(h.List)...)
		protected.PUT("/users/:id/roles", admin(h.SetRoles)...)
	}

	// Quizzes
	if h := cfg.QuizHandler; h != nil {
		protected.GET("/quizzes/:id/questions", h.Questions)
		protected.GET("/quizzes/:id/answers", h.Answers)
		protected.POST("/quizzes/:id/attempts", h.Start)
		protected.PATCH("/attempts/:id/answers", h.SaveAnswers)
		protected.POST("/attempts/:id/complete", h.Complete)
		protected.GET("/attempts", h.ListAttempts)
	}

	// Playback tracking
	if h := cfg.PlaybackHandler; h != nil {
		protected.POST("/contents/:id/playback/start", h.Start)
		protected.POST("/contents/:id/playback/heartbeat", h.Heartbeat)
		protected.POST("/contents/:id/playback/stop", h.Stop)
		protected.POST("/contents/:id/playback/ended", h.Ended)
		protected.GET("/progress", h.Progress)
	}

	// Demo store
	if h := cfg.DemoHandler; h != nil {
		protected.GET("/demo/state", h.State)
		protected.POST("/demo/commands", h.Dispatch)
		protected.GET("/demo/classes/legacy", h.LegacyClasses)
	}

	return r
}
