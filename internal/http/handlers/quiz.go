package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/http/middleware"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type QuizHandler struct {
	log     *logger.Logger
	quizzes services.QuizService
	users   services.UserService
}

func NewQuizHandler(log *logger.Logger, quizzes services.QuizService, users services.UserService) *QuizHandler {
	return &QuizHandler{
		log:     log.With("handler", "QuizHandler"),
		quizzes: quizzes,
		users:   users,
	}
}

// GET /api/quizzes/:id/questions
func (h *QuizHandler) Questions(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	questions, err := h.quizzes.Questions(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, "load_questions_failed", err)
		return
	}
	if questions == nil {
		questions = []types.QuizQuestion{}
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

// GET /api/quizzes/:id/answers
func (h *QuizHandler) Answers(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	roles := middleware.CallerRoles(c)
	if roles == nil {
		me, err := h.users.Me(ctx)
		if err != nil {
			response.RespondServiceError(c, "role_lookup_failed", err)
			return
		}
		roles = me.Roles
	}
	questions, err := h.quizzes.QuestionsWithAnswers(ctx, id, roles)
	if err != nil {
		response.RespondServiceError(c, "load_answers_failed", err)
		return
	}
	if questions == nil {
		questions = []types.QuizQuestion{}
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

// POST /api/quizzes/:id/attempts
func (h *QuizHandler) Start(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	attempt, err := h.quizzes.Start(c.Request.Context(), callerID(c), id)
	if err != nil {
		response.RespondServiceError(c, "start_attempt_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"attempt": attempt})
}

type saveAnswersRequest struct {
	Answers json.RawMessage `json:"answers"`
}

// PATCH /api/attempts/:id/answers
func (h *QuizHandler) SaveAnswers(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req saveAnswersRequest
	if !bindJSON(c, &req) {
		return
	}
	attempt, err := h.quizzes.SaveAnswers(c.Request.Context(), callerID(c), id, req.Answers)
	if err != nil {
		response.RespondServiceError(c, "save_answers_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"attempt": attempt})
}

type completeAttemptRequest struct {
	Answers json.RawMessage `json:"answers"`
	Score   float64         `json:"score"`
	Passed  bool            `json:"passed"`
}

// POST /api/attempts/:id/complete
func (h *QuizHandler) Complete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req completeAttemptRequest
	if !bindJSON(c, &req) {
		return
	}
	attempt, err := h.quizzes.Complete(c.Request.Context(), callerID(c), id, req.Answers, req.Score, req.Passed)
	if err != nil {
		response.RespondServiceError(c, "complete_attempt_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"attempt": attempt})
}

// GET /api/attempts
func (h *QuizHandler) ListAttempts(c *gin.Context) {
	attempts, err := h.quizzes.ListForUser(c.Request.Context(), callerID(c))
	if err != nil {
		response.RespondServiceError(c, "load_attempts_failed", err)
		return
	}
	if attempts == nil {
		attempts = []*types.QuizAttempt{}
	}
	response.RespondOK(c, gin.H{"attempts": attempts})
}
