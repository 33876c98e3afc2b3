package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/lshigami/attemptkeeper/internal/dto"
	"github.com/lshigami/attemptkeeper/internal/model"
	"github.com/lshigami/attemptkeeper/internal/repository"
)

func (e *env) seedPurgeLog(t *testing.T, attemptID, userID uint, reason string, startedAt, purgedAt time.Time) {
	t.Helper()
	entry := model.PurgeLogEntry{
		AttemptID:   attemptID,
		UserID:      userID,
		ExamTypeID:  1,
		Mode:        model.ModeQuiz,
		PriorStatus: model.AttemptStatusAbandoned,
		PriorReason: &reason,
		StartedAt:   startedAt,
		PurgedAt:    purgedAt,
	}
	if err := e.purgeLogs.Create(context.Background(), nil, &entry); err != nil {
		t.Fatalf("seed purge log: %v", err)
	}
}

func (e *env) allStats(t *testing.T, from, to time.Time) []model.DailyUserStats {
	t.Helper()
	rows, err := e.statsRepo.FindRange(context.Background(), model.DayKey(from), model.DayKey(to), nil)
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	return rows
}

// seedReconcileDay lays down one day of history for user 1: a finished
// attempt at 80, a timed out one, a low progress one, and two purges.
func seedReconcileDay(t *testing.T, e *env, day time.Time) {
	e.seedAttempt(t, seed{userID: 1, status: model.AttemptStatusFinished, startedAt: day.Add(9 * time.Hour), score: floatPtr(80)})
	e.seedAttempt(t, seed{userID: 1, status: model.AttemptStatusAbandoned, reason: model.ReasonTimeoutInactivity, startedAt: day.Add(10 * time.Hour)})
	e.seedAttempt(t, seed{userID: 1, status: model.AttemptStatusAbandoned, reason: model.ReasonLowProgress, startedAt: day.Add(23 * time.Hour)})
	e.seedPurgeLog(t, 9001, 1, model.ReasonLowProgress, day.AddDate(0, 0, -10), day.Add(3*time.Hour))
	e.seedPurgeLog(t, 9002, 1, model.ReasonTimeoutInactivity, day.AddDate(0, 0, -12), day.Add(4*time.Hour))
}

func TestReconcileRebuildOneDay(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	seedReconcileDay(t, e, day)
	// stale drifted row for the day is replaced
	if err := e.statsRepo.Increment(ctx, 1, model.DayKey(day), repository.StatsDelta{Started: 40}); err != nil {
		t.Fatalf("seed stale stats: %v", err)
	}

	result, err := e.reconciler.Reconcile(ctx, dto.ReconcileRequest{From: day, To: day.Add(15 * time.Hour)})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.Mode != ReconcileModeRebuild || result.From != "2026-10-14" || result.To != "2026-10-14" {
		t.Errorf("unexpected result %+v", result)
	}
	if result.AttemptsScanned != 3 || result.PurgeLogsScanned != 2 || result.RowsDeleted != 1 || result.RowsWritten != 1 {
		t.Errorf("unexpected counts %+v", result)
	}

	want := model.DailyUserStats{
		UserID: 1, StatDate: "2026-10-14",
		StartedCount: 3, FinishedCount: 1, AbandonedCount: 2,
		TimeoutCount: 1, LowProgressCount: 1, PurgedCount: 2,
		AvgScorePercent: 80,
	}
	if got := e.statsRow(t, 1, "2026-10-14"); got != want {
		t.Errorf("row = %+v\nwant  %+v", got, want)
	}
}

func TestReconcileRebuildIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	seedReconcileDay(t, e, day)
	e.seedAttempt(t, seed{userID: 2, status: model.AttemptStatusFinished, startedAt: day.AddDate(0, 0, -1), score: floatPtr(55)})

	req := dto.ReconcileRequest{From: day.AddDate(0, 0, -20), To: day}
	if _, err := e.reconciler.Reconcile(ctx, req); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	first := e.allStats(t, req.From, req.To)
	if _, err := e.reconciler.Reconcile(ctx, req); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	second := e.allStats(t, req.From, req.To)

	if len(first) == 0 || !reflect.DeepEqual(first, second) {
		t.Errorf("rebuild not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestReconcileMatchesIncrementalPath(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	e.clock.now = start

	var ids []uint
	for i := 0; i < 4; i++ {
		resp, err := e.attemptsSvc.StartAttempt(ctx, dto.StartAttemptRequest{UserID: 11, ExamTypeID: 1, Mode: model.ModeFull})
		if err != nil {
			t.Fatalf("StartAttempt: %v", err)
		}
		ids = append(ids, resp.ID)
	}
	e.clock.now = start.Add(time.Hour)
	if _, err := e.attemptsSvc.FinishAttempt(ctx, ids[0], dto.FinishAttemptRequest{CorrectCount: 8, TotalCount: 10}); err != nil {
		t.Fatalf("FinishAttempt: %v", err)
	}

	e.clock.now = start.Add(6 * time.Hour)
	if _, err := e.detector.MarkAbandoned(ctx); err != nil {
		t.Fatalf("MarkAbandoned: %v", err)
	}
	e.clock.now = start.AddDate(0, 0, 8)
	purged, err := e.purger.PurgeAbandoned(ctx)
	if err != nil {
		t.Fatalf("PurgeAbandoned: %v", err)
	}
	if purged.Purged != 3 {
		t.Fatalf("purged %d, want 3", purged.Purged)
	}

	from, to := start, e.clock.now
	incremental := e.allStats(t, from, to)
	if _, err := e.reconciler.Reconcile(ctx, dto.ReconcileRequest{From: from, To: to}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	rebuilt := e.allStats(t, from, to)

	if !reflect.DeepEqual(incremental, rebuilt) {
		t.Errorf("incremental and rebuilt stats differ:\n%+v\n%+v", incremental, rebuilt)
	}
	if len(rebuilt) != 2 || rebuilt[0].StartedCount != 4 || rebuilt[0].TimeoutCount != 3 || rebuilt[1].PurgedCount != 3 {
		t.Errorf("unexpected rebuilt rows %+v", rebuilt)
	}
}

func TestReconcileDryRunWritesNothing(t *testing.T) {
	e := newEnv(t)
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	seedReconcileDay(t, e, day)

	result, err := e.reconciler.Reconcile(context.Background(), dto.ReconcileRequest{From: day, To: day, DryRun: true})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !result.DryRun || result.Buckets != 1 || result.RowsWritten != 0 || len(result.Sample) != 1 {
		t.Errorf("unexpected result %+v", result)
	}
	if result.Sample[0].StartedCount != 3 || result.Sample[0].PurgedCount != 2 {
		t.Errorf("unexpected sample %+v", result.Sample[0])
	}
	if rows := e.allStats(t, day, day); len(rows) != 0 {
		t.Errorf("dry run wrote %d rows", len(rows))
	}
}

func TestReconcileMerge(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	if err := e.statsRepo.Increment(ctx, 1, model.DayKey(day), repository.StatsDelta{Started: 1, Finished: 1, ScoreSum: 60}); err != nil {
		t.Fatalf("seed stats: %v", err)
	}
	e.seedAttempt(t, seed{userID: 1, status: model.AttemptStatusFinished, startedAt: day.Add(time.Hour), score: floatPtr(80)})

	if _, err := e.reconciler.Reconcile(ctx, dto.ReconcileRequest{From: day, To: day, Mode: ReconcileModeMerge}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	row := e.statsRow(t, 1, model.DayKey(day))
	if row.StartedCount != 2 || row.FinishedCount != 2 || row.AvgScorePercent != 70 {
		t.Errorf("unexpected merged row %+v", row)
	}
}

func TestReconcileScopedToUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	if err := e.statsRepo.Increment(ctx, 2, model.DayKey(day), repository.StatsDelta{Started: 9}); err != nil {
		t.Fatalf("seed stats: %v", err)
	}
	e.seedAttempt(t, seed{userID: 1, startedAt: day.Add(time.Hour)})
	e.seedAttempt(t, seed{userID: 2, startedAt: day.Add(time.Hour)})

	user := uint(1)
	result, err := e.reconciler.Reconcile(ctx, dto.ReconcileRequest{From: day, To: day, UserID: &user})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.AttemptsScanned != 1 {
		t.Errorf("scanned %d attempts, want 1", result.AttemptsScanned)
	}
	if row := e.statsRow(t, 2, model.DayKey(day)); row.StartedCount != 9 {
		t.Errorf("other user's row changed: %+v", row)
	}
	if row := e.statsRow(t, 1, model.DayKey(day)); row.StartedCount != 1 {
		t.Errorf("user row = %+v", row)
	}
}

func TestReconcileValidation(t *testing.T) {
	e := newEnv(t)
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		req  dto.ReconcileRequest
		want error
	}{
		{"missing from", dto.ReconcileRequest{To: day}, ErrInvalidRange},
		{"reversed", dto.ReconcileRequest{From: day, To: day.AddDate(0, 0, -1)}, ErrInvalidRange},
		{"too large", dto.ReconcileRequest{From: day.AddDate(0, 0, -366), To: day}, ErrRangeTooLarge},
		{"unknown mode", dto.ReconcileRequest{From: day, To: day, Mode: "append"}, ErrUnknownMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.reconciler.Reconcile(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := e.reconciler.Reconcile(context.Background(), dto.ReconcileRequest{From: day.AddDate(0, 0, -365), To: day}); err != nil {
		t.Errorf("366 day range rejected: %v", err)
	}
}
