package main

import (
	"errors"
	"testing"
	"time"

	"github.com/lshigami/attemptkeeper/internal/service"
)

func TestParseReconcileArgs(t *testing.T) {
	req, err := parseReconcileArgs([]string{"--from", "2026-10-01", "--to=2026-10-07", "--user", "42", "--mode", "merge", "--dry-run"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !req.From.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)) || !req.To.Equal(time.Date(2026, 10, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("range = %v..%v", req.From, req.To)
	}
	if req.UserID == nil || *req.UserID != 42 || req.Mode != service.ReconcileModeMerge || !req.DryRun {
		t.Errorf("unexpected request %+v", req)
	}

	req, err = parseReconcileArgs([]string{"--from", "2026-10-01", "--to", "2026-10-01"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.UserID != nil || req.Mode != service.ReconcileModeRebuild || req.DryRun {
		t.Errorf("unexpected defaults %+v", req)
	}
}

func TestParseReconcileArgsUsageErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"--from", "2026-10-01"},
		{"--from", "01/10/2026", "--to", "2026-10-02"},
		{"--from", "2026-10-01", "--to", "2026-10-02", "--bogus"},
		{"--from", "2026-10-01", "--to", "2026-10-02", "extra"},
		{"--from", "2026-10-01", "--to", "2026-10-02", "--user", "-1"},
	}
	for _, args := range tests {
		if _, err := parseReconcileArgs(args); !errors.Is(err, errUsage) {
			t.Errorf("args %v: err = %v, want usage error", args, err)
		}
	}
}

func TestNoFlags(t *testing.T) {
	if err := noFlags("mark-abandoned", nil); err != nil {
		t.Errorf("no args: %v", err)
	}
	if err := noFlags("mark-abandoned", []string{"--limit", "5"}); !errors.Is(err, errUsage) {
		t.Errorf("unknown flag: err = %v", err)
	}
}
