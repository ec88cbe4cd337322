package main

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/api"
	v1 "github.com/billforge/billforge/internal/api/v1"
	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/repository"
	"github.com/billforge/billforge/internal/service"
	"github.com/billforge/billforge/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// Repositories
			repository.NewAccountRepository,
			repository.NewUsageRepository,
			repository.NewSequenceRepository,
			repository.NewSequenceSettingsRepository,

			// Services
			service.NewServiceParams,
			service.NewBillingCycleService,
			service.NewAccountService,
			service.NewSubscriptionGateService,
			service.NewNumberingService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			validator.NewValidator,
			startServer,
		),
	)

	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	gateService service.SubscriptionGateService,
	numberingService service.NumberingService,
	accountService service.AccountService,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(logger),
		Gate:      v1.NewGateHandler(gateService, logger),
		Numbering: v1.NewNumberingHandler(numberingService, logger),
		Plan:      v1.NewPlanHandler(logger),
		Account:   v1.NewAccountHandler(accountService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	db *sqlx.DB,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Postgres.AutoMigrate {
				if err := postgres.Migrate(ctx, db, log); err != nil {
					return err
				}
			}

			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return db.Close()
		},
	})
}
