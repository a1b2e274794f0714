package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizService stores attempts. Scoring happens elsewhere; Complete only
// records the score and verdict it is given.
type QuizService interface {
	Questions(ctx context.Context, quizID uuid.UUID) ([]types.QuizQuestion, error)
	QuestionsWithAnswers(ctx context.Context, quizID uuid.UUID, caller []types.Role) ([]types.QuizQuestion, error)
	Start(ctx context.Context, userID, quizID uuid.UUID) (*types.QuizAttempt, error)
	SaveAnswers(ctx context.Context, userID, attemptID uuid.UUID, answers json.RawMessage) (*types.QuizAttempt, error)
	// Complete records score and passed as given. Scoring is the caller's
	// job; the service only checks the score range.
	Complete(ctx context.Context, userID, attemptID uuid.UUID, answers json.RawMessage, score float64, passed bool) (*types.QuizAttempt, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.QuizAttempt, error)
}

type quizService struct {
	db           *gorm.DB
	log          *logger.Logger
	contentRepo  repos.ContentRepo
	questionRepo repos.QuizQuestionRepo
	attemptRepo  repos.QuizAttemptRepo
	now          func() time.Time
}

func NewQuizService(
	db *gorm.DB,
	baseLog *logger.Logger,
	contentRepo repos.ContentRepo,
	questionRepo repos.QuizQuestionRepo,
	attemptRepo repos.QuizAttemptRepo,
) QuizService {
	return &quizService{
		db:           db,
		log:          baseLog.With("service", "QuizService"),
		contentRepo:  contentRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		now:          time.Now,
	}
}

func (qs *quizService) Questions(ctx context.Context, quizID uuid.UUID) ([]types.QuizQuestion, error) {
	rows, err := qs.questions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	out := make([]types.QuizQuestion, 0, len(rows))
	for _, q := range rows {
		out = append(out, q.WithoutAnswer())
	}
	return out, nil
}

func (qs *quizService) QuestionsWithAnswers(ctx context.Context, quizID uuid.UUID, caller []types.Role) ([]types.QuizQuestion, error) {
	if !types.HasRole(caller, types.RoleAdmin, types.RoleProfessor) {
		return nil, fmt.Errorf("quiz answers: %w", ErrForbidden)
	}
	rows, err := qs.questions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	out := make([]types.QuizQuestion, 0, len(rows))
	for _, q := range rows {
		out = append(out, *q)
	}
	return out, nil
}

func (qs *quizService) questions(ctx context.Context, quizID uuid.UUID) ([]*types.QuizQuestion, error) {
	rows, err := qs.questionRepo.GetByQuizID(ctx, nil, quizID)
	if err != nil {
		qs.log.Error("Load quiz questions failed", "quiz_id", quizID, "error", err)
		return nil, fmt.Errorf("quiz questions: %w", err)
	}
	return rows, nil
}

func (qs *quizService) Start(ctx context.Context, userID, quizID uuid.UUID) (*types.QuizAttempt, error) {
	quiz, err := qs.contentRepo.GetByID(ctx, nil, quizID)
	if err != nil {
		qs.log.Error("Load quiz failed", "quiz_id", quizID, "error", err)
		return nil, fmt.Errorf("start attempt: %w", err)
	}
	if quiz == nil || quiz.Type != types.ContentQuiz {
		return nil, fmt.Errorf("quiz %s: %w", quizID, ErrNotFound)
	}
	a := &types.QuizAttempt{
		ID:        uuid.New(),
		UserID:    userID,
		QuizID:    quizID,
		StartedAt: qs.now().UTC(),
		Answers:   datatypes.JSON([]byte("{}")),
	}
	if _, err := qs.attemptRepo.Create(ctx, nil, []*types.QuizAttempt{a}); err != nil {
		qs.log.Error("Create attempt failed", "quiz_id", quizID, "error", err)
		return nil, fmt.Errorf("start attempt: %w", err)
	}
	return a, nil
}

func (qs *quizService) SaveAnswers(ctx context.Context, userID, attemptID uuid.UUID, answers json.RawMessage) (*types.QuizAttempt, error) {
	if !json.Valid(answers) {
		return nil, fmt.Errorf("%w: answers must be valid JSON", ErrInvalidArgument)
	}
	if _, err := qs.owned(ctx, userID, attemptID); err != nil {
		return nil, err
	}
	if err := qs.attemptRepo.UpdateAnswers(ctx, nil, attemptID, datatypes.JSON(answers)); err != nil {
		qs.log.Warn("Save answers failed", "attempt_id", attemptID, "error", err)
		return nil, fmt.Errorf("save answers: %w", err)
	}
	return qs.owned(ctx, userID, attemptID)
}

// Complete finishes an attempt exactly once. Later calls get
// ErrAttemptCompleted and the first result stands. The caller is the trusted
// scorer: passed is stored as sent, even when it disagrees with score.
func (qs *quizService) Complete(ctx context.Context, userID, attemptID uuid.UUID, answers json.RawMessage, score float64, passed bool) (*types.QuizAttempt, error) {
	if len(answers) > 0 && !json.Valid(answers) {
		return nil, fmt.Errorf("%w: answers must be valid JSON", ErrInvalidArgument)
	}
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: score must be within 0..100", ErrInvalidArgument)
	}
	if _, err := qs.owned(ctx, userID, attemptID); err != nil {
		return nil, err
	}
	if err := qs.attemptRepo.Complete(ctx, nil, attemptID, datatypes.JSON(answers), score, passed, qs.now().UTC()); err != nil {
		qs.log.Warn("Complete attempt failed", "attempt_id", attemptID, "error", err)
		return nil, fmt.Errorf("complete attempt: %w", err)
	}
	return qs.owned(ctx, userID, attemptID)
}

func (qs *quizService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.QuizAttempt, error) {
	out, err := qs.attemptRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		qs.log.Error("List attempts failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return out, nil
}

func (qs *quizService) owned(ctx context.Context, userID, attemptID uuid.UUID) (*types.QuizAttempt, error) {
	a, err := qs.attemptRepo.GetByID(ctx, nil, attemptID)
	if err != nil {
		qs.log.Error("Load attempt failed", "attempt_id", attemptID, "error", err)
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	if a == nil || a.UserID != userID {
		return nil, fmt.Errorf("attempt %s: %w", attemptID, ErrNotFound)
	}
	return a, nil
}
