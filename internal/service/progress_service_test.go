package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/lshigami/attemptkeeper/internal/model"
)

func TestComputeProgress(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name                       string
		seed                       seed
		wantResponded, wantScorable int
		wantPercent                float64
	}{
		{"no questions", seed{userID: 1, startedAt: testNow}, 0, 0, 0},
		{"only pretest answered", seed{userID: 1, startedAt: testNow, pretest: 3}, 0, 0, 0},
		{"pretest excluded from denominator", seed{userID: 1, startedAt: testNow, scorable: 2, responded: 1, pretest: 2}, 1, 2, 50},
		{"ten percent", seed{userID: 1, startedAt: testNow, scorable: 10, responded: 1}, 1, 10, 10},
		{"all answered", seed{userID: 1, startedAt: testNow, scorable: 4, responded: 4}, 4, 4, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := e.seedAttempt(t, tt.seed)
			got := e.progress.ComputeProgress(ctx, a.ID)
			if got.Err != nil {
				t.Fatalf("unexpected error: %v", got.Err)
			}
			if got.RespondedCount != tt.wantResponded || got.ScorableCount != tt.wantScorable {
				t.Errorf("counts = %d/%d, want %d/%d", got.RespondedCount, got.ScorableCount, tt.wantResponded, tt.wantScorable)
			}
			if math.IsNaN(got.RespondedPercent) || math.IsInf(got.RespondedPercent, 0) {
				t.Fatalf("non-finite percent %v", got.RespondedPercent)
			}
			if math.Abs(got.RespondedPercent-tt.wantPercent) > 1e-9 {
				t.Errorf("percent = %v, want %v", got.RespondedPercent, tt.wantPercent)
			}
		})
	}
}

func TestComputeProgressUnselectedAndTextAnswers(t *testing.T) {
	e := newEnv(t)
	text := "essay"
	a := model.Attempt{UserID: 1, ExamTypeID: 1, Mode: model.ModeQuiz, Status: model.AttemptStatusInProgress, StartedAt: testNow,
		Questions: []model.AttemptQuestion{
			{QuestionID: 1, Answers: []model.AttemptAnswer{{IsSelected: false}}},
			{QuestionID: 2, Answers: []model.AttemptAnswer{{ResponseText: &text}}},
			{QuestionID: 3, Answers: []model.AttemptAnswer{{IsSelected: true}, {IsSelected: true}}},
			{QuestionID: 4},
		}}
	if err := e.db.Create(&a).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got := e.progress.ComputeProgress(context.Background(), a.ID)
	if got.Err != nil || got.RespondedCount != 2 || got.ScorableCount != 4 || got.RespondedPercent != 50 {
		t.Errorf("unexpected progress %+v", got)
	}
}

type failingQuestionRepo struct{}

func (failingQuestionRepo) FindByAttemptID(context.Context, uint) ([]model.AttemptQuestion, error) {
	return nil, errors.New("connection reset")
}

func TestComputeProgressDegradesOnStorageError(t *testing.T) {
	svc := NewProgressService(failingQuestionRepo{}, nil)
	got := svc.ComputeProgress(context.Background(), 42)
	if got.Err == nil {
		t.Fatal("expected error annotation")
	}
	if got.RespondedCount != 0 || got.ScorableCount != 0 || got.RespondedPercent != 0 {
		t.Errorf("expected zeroed result, got %+v", got)
	}
}
