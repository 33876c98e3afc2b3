package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lshigami/attemptkeeper/database"
	"github.com/lshigami/attemptkeeper/internal/dto"
	"github.com/lshigami/attemptkeeper/internal/model"
	"github.com/lshigami/attemptkeeper/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const stopTimeout = 15 * time.Second

// runJob builds the core graph, fills targets, runs fn and prints its result
// as JSON on stdout.
func runJob(fn func(ctx context.Context) (interface{}, error), targets ...interface{}) error {
	app := fx.New(coreModule, fx.NopLogger, fx.Populate(targets...))
	if err := app.Err(); err != nil {
		return err
	}

	ctx := context.Background()
	startCtx, cancel := context.WithTimeout(ctx, fx.DefaultTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to stop cleanly")
		}
	}()

	result, err := fn(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// noFlags rejects any flag or argument for commands that take none.
func noFlags(name string, args []string) error {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: %s takes no arguments", errUsage, name)
	}
	return nil
}

func markAbandoned(args []string) error {
	if err := noFlags("mark-abandoned", args); err != nil {
		return err
	}
	var svc service.AbandonmentService
	return runJob(func(ctx context.Context) (interface{}, error) {
		return svc.MarkAbandoned(ctx)
	}, &svc)
}

func purgeAbandoned(args []string) error {
	if err := noFlags("purge-abandoned", args); err != nil {
		return err
	}
	var svc service.PurgeService
	return runJob(func(ctx context.Context) (interface{}, error) {
		return svc.PurgeAbandoned(ctx)
	}, &svc)
}

func reconcile(args []string) error {
	req, err := parseReconcileArgs(args)
	if err != nil {
		return err
	}
	var svc service.ReconcileService
	return runJob(func(ctx context.Context) (interface{}, error) {
		result, err := svc.Reconcile(ctx, req)
		if errors.Is(err, service.ErrInvalidRange) || errors.Is(err, service.ErrRangeTooLarge) || errors.Is(err, service.ErrUnknownMode) {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		return result, err
	}, &svc)
}

func parseReconcileArgs(args []string) (dto.ReconcileRequest, error) {
	var (
		req      dto.ReconcileRequest
		from, to string
		userID   uint
	)
	fs := pflag.NewFlagSet("reconcile", pflag.ContinueOnError)
	fs.StringVar(&from, "from", "", "first day, YYYY-MM-DD (required)")
	fs.StringVar(&to, "to", "", "last day, YYYY-MM-DD (required)")
	fs.UintVar(&userID, "user", 0, "only this user")
	fs.StringVar(&req.Mode, "mode", service.ReconcileModeRebuild, "rebuild or merge")
	fs.BoolVar(&req.DryRun, "dry-run", false, "compute and preview without writing")
	if err := fs.Parse(args); err != nil {
		return req, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return req, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	if from == "" || to == "" {
		return req, fmt.Errorf("%w: --from and --to are required", errUsage)
	}

	var err error
	if req.From, err = time.Parse(model.DayLayout, from); err != nil {
		return req, fmt.Errorf("%w: --from: %v", errUsage, err)
	}
	if req.To, err = time.Parse(model.DayLayout, to); err != nil {
		return req, fmt.Errorf("%w: --to: %v", errUsage, err)
	}
	if fs.Changed("user") {
		req.UserID = &userID
	}
	return req, nil
}

func migrateDB(args []string) error {
	if err := noFlags("migrate", args); err != nil {
		return err
	}
	var db *gorm.DB
	return runJob(func(ctx context.Context) (interface{}, error) {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		return map[string]string{"driver": db.Dialector.Name(), "status": "migrated"}, nil
	}, &db)
}
