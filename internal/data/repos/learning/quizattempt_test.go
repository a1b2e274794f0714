package learning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classroom-backend/internal/domain"
	apperr "github.com/yungbote/classroom-backend/internal/pkg/errors"
	"gorm.io/datatypes"
)

func TestQuizAttemptCompletesOnce(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewQuizAttemptRepo(db, testutil.Logger(t))

	userID, quizID := uuid.New(), uuid.New()
	a := &types.QuizAttempt{UserID: userID, QuizID: quizID, StartedAt: time.Now().UTC(), Answers: datatypes.JSON([]byte("{}"))}
	if _, err := repo.Create(ctx, tx, []*types.QuizAttempt{a}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.UpdateAnswers(ctx, tx, a.ID, datatypes.JSON([]byte(`{"q1":"a"}`))); err != nil {
		t.Fatalf("UpdateAnswers: %v", err)
	}
	at := time.Now().UTC()
	if err := repo.Complete(ctx, tx, a.ID, nil, 80, true, at); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := repo.Complete(ctx, tx, a.ID, nil, 10, false, at.Add(time.Minute)); !errors.Is(err, apperr.ErrAttemptCompleted) {
		t.Fatalf("second Complete: want ErrAttemptCompleted got %v", err)
	}
	if err := repo.UpdateAnswers(ctx, tx, a.ID, datatypes.JSON([]byte(`{}`))); !errors.Is(err, apperr.ErrAttemptCompleted) {
		t.Fatalf("UpdateAnswers after complete: want ErrAttemptCompleted got %v", err)
	}

	got, err := repo.GetByID(ctx, tx, a.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v", err)
	}
	if !got.IsCompleted() || got.Score == nil || *got.Score != 80 || got.Passed == nil || !*got.Passed {
		t.Fatalf("stored attempt: completed=%v score=%v passed=%v", got.IsCompleted(), got.Score, got.Passed)
	}
	if rows, err := repo.GetByUserID(ctx, tx, userID); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserID: err=%v len=%d", err, len(rows))
	}
}

func TestQuizQuestionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewQuizQuestionRepo(db, testutil.Logger(t))

	quizID := uuid.New()
	q2 := &types.QuizQuestion{QuizID: quizID, OrderIndex: 1, Prompt: "second"}
	q1 := &types.QuizQuestion{QuizID: quizID, OrderIndex: 0, Prompt: "first"}
	if _, err := repo.Create(ctx, tx, []*types.QuizQuestion{q2, q1}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rows, err := repo.GetByQuizID(ctx, tx, quizID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetByQuizID: err=%v len=%d", err, len(rows))
	}
	if rows[0].Prompt != "first" {
		t.Fatalf("GetByQuizID order: want=first got=%s", rows[0].Prompt)
	}
}
