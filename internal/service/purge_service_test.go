package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lshigami/attemptkeeper/internal/model"
	"github.com/lshigami/attemptkeeper/internal/repository"
	"gorm.io/gorm"
)

func abandonedSeed(userID uint, daysAgo, scorable, responded int) seed {
	return seed{
		userID:    userID,
		mode:      model.ModeQuiz,
		status:    model.AttemptStatusAbandoned,
		reason:    model.ReasonLowProgress,
		startedAt: testNow.AddDate(0, 0, -daysAgo),
		scorable:  scorable,
		responded: responded,
	}
}

func countRows(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestPurgeAbandonedLowProgress(t *testing.T) {
	e := newEnv(t)
	a := e.seedAttempt(t, abandonedSeed(1, 10, 20, 3))

	summary, err := e.purger.PurgeAbandoned(context.Background())
	if err != nil {
		t.Fatalf("PurgeAbandoned: %v", err)
	}
	if summary.Inspected != 1 || summary.Purged != 1 || len(summary.Errors) != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if _, err := e.attempts.FindByID(context.Background(), a.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("attempt still present, err = %v", err)
	}
	if n := countRows(t, e.db, &model.AttemptQuestion{}, "attempt_id = ?", a.ID); n != 0 {
		t.Errorf("%d questions left behind", n)
	}
	if n := countRows(t, e.db, &model.AttemptAnswer{}, "1 = 1"); n != 0 {
		t.Errorf("%d answers left behind", n)
	}

	var entries []model.PurgeLogEntry
	if err := e.db.Where("attempt_id = ?", a.ID).Find(&entries).Error; err != nil {
		t.Fatalf("load purge log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d purge log entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.RespondedPercent != 15 || entry.RespondedCount != 3 || entry.ScorableCount != 20 {
		t.Errorf("unexpected snapshot %+v", entry)
	}
	if entry.PriorStatus != model.AttemptStatusAbandoned || entry.PriorReason == nil || *entry.PriorReason != model.ReasonLowProgress {
		t.Errorf("unexpected prior state %s/%v", entry.PriorStatus, entry.PriorReason)
	}
	if !entry.StartedAt.Equal(a.StartedAt) || !entry.PurgedAt.Equal(testNow) {
		t.Errorf("unexpected timestamps started=%v purged=%v", entry.StartedAt, entry.PurgedAt)
	}
	var meta map[string]interface{}
	if err := json.Unmarshal(entry.Metadata, &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta["run_id"] != summary.RunID {
		t.Errorf("metadata run_id = %v, want %s", meta["run_id"], summary.RunID)
	}

	if row := e.statsRow(t, 1, model.DayKey(testNow)); row.PurgedCount != 1 {
		t.Errorf("purged count = %d, want 1", row.PurgedCount)
	}
}

func TestPurgeAbandonedRetainsProgress(t *testing.T) {
	e := newEnv(t)
	a := e.seedAttempt(t, abandonedSeed(2, 10, 4, 1))

	summary, err := e.purger.PurgeAbandoned(context.Background())
	if err != nil {
		t.Fatalf("PurgeAbandoned: %v", err)
	}
	if summary.Purged != 0 || summary.RetainedProgress != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if got := e.reload(t, a.ID); got.Status != model.AttemptStatusAbandoned {
		t.Errorf("attempt = %s, want abandoned", got.Status)
	}
	if n := countRows(t, e.db, &model.PurgeLogEntry{}, "attempt_id = ?", a.ID); n != 0 {
		t.Errorf("unexpected purge log entry")
	}
}

func TestPurgeAbandonedSkipsYoungAndActive(t *testing.T) {
	e := newEnv(t)
	young := e.seedAttempt(t, abandonedSeed(3, 2, 10, 0))
	active := e.seedAttempt(t, seed{userID: 3, mode: model.ModeQuiz, startedAt: testNow.AddDate(0, 0, -30), lastActivity: ago(time.Hour), scorable: 10})
	finished := e.seedAttempt(t, seed{userID: 3, status: model.AttemptStatusFinished, startedAt: testNow.AddDate(0, 0, -30), scorable: 10, score: floatPtr(0)})

	summary, err := e.purger.PurgeAbandoned(context.Background())
	if err != nil {
		t.Fatalf("PurgeAbandoned: %v", err)
	}
	if summary.Inspected != 1 || summary.SkippedTooYoung != 1 || summary.Purged != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
	for _, id := range []uint{young.ID, active.ID, finished.ID} {
		e.reload(t, id)
	}
}

func TestPurgeAbandonedZeroScorable(t *testing.T) {
	e := newEnv(t)
	a := e.seedAttempt(t, abandonedSeed(4, 8, 0, 0))

	summary, err := e.purger.PurgeAbandoned(context.Background())
	if err != nil {
		t.Fatalf("PurgeAbandoned: %v", err)
	}
	if summary.Purged != 1 {
		t.Errorf("attempt with no scorable questions should purge at 0%%, got %+v", summary)
	}
	if _, err := e.attempts.FindByID(context.Background(), a.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("attempt still present, err = %v", err)
	}
}

type failingDeleteRepo struct {
	repository.AttemptRepository
}

func (failingDeleteRepo) DeleteWithDetails(context.Context, *gorm.DB, uint) error {
	return errors.New("disk full")
}

func TestPurgeAbandonedRollsBackOnDeleteFailure(t *testing.T) {
	e := newEnv(t)
	a := e.seedAttempt(t, abandonedSeed(5, 10, 20, 3))

	purger := NewPurgeService(failingDeleteRepo{e.attempts}, e.purgeLogs, e.progress, e.stats, e.policy, e.clock, e.db)
	summary, err := purger.PurgeAbandoned(context.Background())
	if err != nil {
		t.Fatalf("PurgeAbandoned: %v", err)
	}
	if summary.Purged != 0 || len(summary.Errors) != 1 || summary.Errors[0].AttemptID != a.ID {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if n := countRows(t, e.db, &model.PurgeLogEntry{}, "attempt_id = ?", a.ID); n != 0 {
		t.Errorf("purge log entry survived a rolled back purge")
	}
	if got := e.reload(t, a.ID); got.Status != model.AttemptStatusAbandoned {
		t.Errorf("attempt = %s, want abandoned", got.Status)
	}
	if row := e.statsRow(t, 5, model.DayKey(testNow)); row.PurgedCount != 0 {
		t.Errorf("purged counted for a failed purge")
	}
}

func TestPurgeAbandonedIsIdempotent(t *testing.T) {
	e := newEnv(t)
	e.seedAttempt(t, abandonedSeed(6, 10, 20, 0))

	for i := 0; i < 2; i++ {
		if _, err := e.purger.PurgeAbandoned(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if n := countRows(t, e.db, &model.PurgeLogEntry{}, "user_id = ?", 6); n != 1 {
		t.Errorf("got %d purge log entries, want 1", n)
	}
	if row := e.statsRow(t, 6, model.DayKey(testNow)); row.PurgedCount != 1 {
		t.Errorf("purged count = %d, want 1", row.PurgedCount)
	}
}
