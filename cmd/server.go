package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/attemptkeeper/config"
	"github.com/lshigami/attemptkeeper/database"
	_ "github.com/lshigami/attemptkeeper/docs" // Swagger docs
	"github.com/lshigami/attemptkeeper/internal/controller"
	adminctrl "github.com/lshigami/attemptkeeper/internal/controller/admin"
	userctrl "github.com/lshigami/attemptkeeper/internal/controller/user"
	"github.com/lshigami/attemptkeeper/internal/scheduler"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func serve() error {
	app := fx.New(
		coreModule,

		fx.Provide(
			NewGinEngine,
			adminctrl.NewAdminJobController,
			userctrl.NewUserStatsController,
			scheduler.New,
		),

		// Migrations run before anything starts serving.
		fx.Invoke(MigrateDB, RegisterRoutesAndStartServer, StartScheduler),
	)
	if err := app.Err(); err != nil {
		return err
	}

	app.Run()
	return nil
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", adminctrl.TokenHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	return r
}

func MigrateDB(db *gorm.DB) error {
	return database.Migrate(db)
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminCtrl *adminctrl.AdminJobController,
	userCtrl *userctrl.UserStatsController,
) {
	controller.RegisterRoutes(router, cfg.Admin.Token, adminCtrl, userCtrl)
	if cfg.Admin.Token == "" {
		log.Warn().Msg("ADMIN_TOKEN is not set, admin routes are unauthenticated")
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Attempt lifecycle API starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func StartScheduler(lc fx.Lifecycle, cfg *config.Config, sched *scheduler.Scheduler) {
	if !cfg.Scheduler.Enabled {
		log.Info().Msg("Scheduler disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sched.Start()
		},
		OnStop: func(ctx context.Context) error {
			sched.Stop()
			return nil
		},
	})
}
