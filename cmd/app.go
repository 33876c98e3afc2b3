package main

import (
	"context"

	"github.com/lshigami/attemptkeeper/config"
	"github.com/lshigami/attemptkeeper/database"
	"github.com/lshigami/attemptkeeper/internal/logger"
	"github.com/lshigami/attemptkeeper/internal/policy"
	"github.com/lshigami/attemptkeeper/internal/repository"
	"github.com/lshigami/attemptkeeper/internal/service"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// coreModule provides config, storage, repositories and services. Every
// command builds on it.
var coreModule = fx.Options(
	// Core Application Components
	fx.Provide(
		config.NewConfig,
		database.NewDatabase, // Provides *gorm.DB
		func(cfg *config.Config) *policy.Config { return cfg.Policy },
		service.NewSystemClock,
	),

	// Repositories Layer
	fx.Provide(
		repository.NewAttemptRepository,
		repository.NewQuestionRepository,
		repository.NewAnswerRepository,
		repository.NewPurgeLogRepository,
		repository.NewDailyStatsRepository,
	),

	// Services Layer
	fx.Provide(
		service.NewProgressService,
		service.NewStatsService,
		service.NewAbandonmentService,
		service.NewPurgeService,
		service.NewReconcileService,
		service.NewAttemptService,
	),

	fx.Invoke(initLogger, closeDBOnStop),
)

func initLogger(cfg *config.Config) {
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
}

func closeDBOnStop(lc fx.Lifecycle, db *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			log.Debug().Msg("Closing database connection")
			return sqlDB.Close()
		},
	})
}
