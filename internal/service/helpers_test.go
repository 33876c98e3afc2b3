package service

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/attemptkeeper/internal/dbtest"
	"github.com/lshigami/attemptkeeper/internal/model"
	"github.com/lshigami/attemptkeeper/internal/policy"
	"github.com/lshigami/attemptkeeper/internal/repository"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

// env wires every service against one SQLite database, the way cmd does.
type env struct {
	db          *gorm.DB
	clock       *fakeClock
	policy      *policy.Config
	attempts    repository.AttemptRepository
	purgeLogs   repository.PurgeLogRepository
	statsRepo   repository.DailyStatsRepository
	progress    ProgressService
	stats       StatsService
	detector    AbandonmentService
	purger      PurgeService
	reconciler  ReconcileService
	attemptsSvc AttemptService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.Open(t)
	e := &env{
		db:        db,
		clock:     &fakeClock{now: testNow},
		policy:    policy.New(nil),
		attempts:  repository.NewAttemptRepository(db),
		purgeLogs: repository.NewPurgeLogRepository(db),
		statsRepo: repository.NewDailyStatsRepository(db),
	}
	e.progress = NewProgressService(repository.NewQuestionRepository(db), repository.NewAnswerRepository(db))
	e.stats = NewStatsService(e.statsRepo, e.clock)
	e.detector = NewAbandonmentService(e.attempts, e.progress, e.stats, e.policy, e.clock)
	e.purger = NewPurgeService(e.attempts, e.purgeLogs, e.progress, e.stats, e.policy, e.clock, db)
	e.reconciler = NewReconcileService(e.attempts, e.purgeLogs, e.statsRepo)
	e.attemptsSvc = NewAttemptService(e.attempts, e.progress, e.stats, e.clock)
	return e
}

type seed struct {
	userID       uint
	mode         string
	status       string
	reason       string
	startedAt    time.Time
	lastActivity *time.Time
	scorable     int
	responded    int
	pretest      int
	score        *float64
}

// seedAttempt stores an attempt with scorable questions of which `responded`
// have a selected answer, plus answered pretest questions.
func (e *env) seedAttempt(t *testing.T, s seed) model.Attempt {
	t.Helper()
	a := model.Attempt{
		UserID:         s.userID,
		ExamTypeID:     1,
		Mode:           s.mode,
		Status:         s.status,
		StartedAt:      s.startedAt,
		LastActivityAt: s.lastActivity,
		ScorePercent:   s.score,
	}
	if a.Mode == "" {
		a.Mode = model.ModeQuiz
	}
	if a.Status == "" {
		a.Status = model.AttemptStatusInProgress
	}
	if s.reason != "" {
		reason := s.reason
		a.StatusReason = &reason
	}
	for i := 0; i < s.scorable; i++ {
		q := model.AttemptQuestion{QuestionID: uint(i + 1)}
		if i < s.responded {
			q.Answers = []model.AttemptAnswer{{IsSelected: true}}
		}
		a.Questions = append(a.Questions, q)
	}
	for i := 0; i < s.pretest; i++ {
		a.Questions = append(a.Questions, model.AttemptQuestion{
			QuestionID: uint(1000 + i),
			IsPreTest:  true,
			Answers:    []model.AttemptAnswer{{IsSelected: true}},
		})
	}
	if err := e.db.Create(&a).Error; err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
	return a
}

func (e *env) reload(t *testing.T, id uint) *model.Attempt {
	t.Helper()
	a, err := e.attempts.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload attempt %d: %v", id, err)
	}
	return a
}

func (e *env) statsRow(t *testing.T, userID uint, day string) model.DailyUserStats {
	t.Helper()
	rows, err := e.statsRepo.FindByUserRange(context.Background(), userID, day, day)
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if len(rows) == 0 {
		return model.DailyUserStats{UserID: userID, StatDate: day}
	}
	return rows[0]
}

func ago(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

func floatPtr(v float64) *float64 { return &v }
