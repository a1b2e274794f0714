package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"gorm.io/datatypes"
)

func seedQuiz(t *testing.T, e *env) *types.Content {
	t.Helper()
	ctx := context.Background()
	trail := testutil.SeedTrail(t, ctx, e.db)
	m := testutil.SeedModule(t, ctx, e.db, trail.ID, 0)
	quiz := testutil.SeedContent(t, ctx, e.db, m.ID, types.ContentQuiz, 0)
	_, err := e.questions.Create(ctx, nil, []*types.QuizQuestion{{
		QuizID:        quiz.ID,
		Prompt:        "2+2?",
		Options:       datatypes.JSON(`["3","4"]`),
		CorrectAnswer: datatypes.JSON(`"4"`),
		Explanation:   "arithmetic",
	}})
	if err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return quiz
}

func TestQuizServiceWithholdsAnswers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := NewQuizService(e.db, e.log, e.contents, e.questions, e.attempts)
	quiz := seedQuiz(t, e)

	public, err := svc.Questions(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(public) != 1 || public[0].CorrectAnswer != nil || public[0].Explanation != "" {
		t.Fatalf("public questions leak answers: %+v", public)
	}

	if _, err := svc.QuestionsWithAnswers(ctx, quiz.ID, []types.Role{types.RoleStudent}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("student: want ErrForbidden, got %v", err)
	}
	full, err := svc.QuestionsWithAnswers(ctx, quiz.ID, []types.Role{types.RoleStudent, types.RoleProfessor})
	if err != nil {
		t.Fatalf("professor: %v", err)
	}
	if len(full) != 1 || string(full[0].CorrectAnswer) != `"4"` {
		t.Fatalf("answers: unexpected %+v", full)
	}
}

func TestQuizServiceCompletesOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := NewQuizService(e.db, e.log, e.contents, e.questions, e.attempts)
	quiz := seedQuiz(t, e)
	user := uuid.New()

	a, err := svc.Start(ctx, user, quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.SaveAnswers(ctx, user, a.ID, json.RawMessage(`{"q1":"4"}`)); err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}
	if _, err := svc.SaveAnswers(ctx, uuid.New(), a.ID, json.RawMessage(`{}`)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign attempt: want ErrNotFound, got %v", err)
	}

	done, err := svc.Complete(ctx, user, a.ID, nil, 100, true)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.CompletedAt == nil || done.Score == nil || *done.Score != 100 || done.Passed == nil || !*done.Passed {
		t.Fatalf("completed attempt: unexpected %+v", done)
	}

	if _, err := svc.Complete(ctx, user, a.ID, nil, 0, false); !errors.Is(err, ErrAttemptCompleted) {
		t.Fatalf("second Complete: want ErrAttemptCompleted, got %v", err)
	}
	if _, err := svc.SaveAnswers(ctx, user, a.ID, json.RawMessage(`{}`)); !errors.Is(err, ErrAttemptCompleted) {
		t.Fatalf("SaveAnswers after completion: want ErrAttemptCompleted, got %v", err)
	}

	list, err := svc.ListForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 1 || *list[0].Score != 100 {
		t.Fatalf("first result must stand: %+v", list)
	}
}

func TestQuizServiceStartRequiresQuizContent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := NewQuizService(e.db, e.log, e.contents, e.questions, e.attempts)
	trail := testutil.SeedTrail(t, ctx, e.db)
	m := testutil.SeedModule(t, ctx, e.db, trail.ID, 0)
	video := testutil.SeedContent(t, ctx, e.db, m.ID, types.ContentVideo, 0)

	if _, err := svc.Start(ctx, uuid.New(), video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("video: want ErrNotFound, got %v", err)
	}
}

func TestQuizServiceStoresCallerVerdict(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := NewQuizService(e.db, e.log, e.contents, e.questions, e.attempts)
	quiz := seedQuiz(t, e)
	user := uuid.New()

	a, err := svc.Start(ctx, user, quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Complete(ctx, user, a.ID, nil, 101, true); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("score out of range: want ErrInvalidArgument, got %v", err)
	}
	done, err := svc.Complete(ctx, user, a.ID, nil, 10, true)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Score == nil || *done.Score != 10 || done.Passed == nil || !*done.Passed {
		t.Fatalf("verdict: want score=10 passed=true got %+v", done)
	}
}
