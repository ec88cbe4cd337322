package api

import (
	v1 "github.com/billforge/billforge/internal/api/v1"
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/rest/middleware"
	"github.com/billforge/billforge/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Gate      *v1.GateHandler
	Numbering *v1.NumberingHandler
	Plan      *v1.PlanHandler
	Account   *v1.AccountHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.TenantMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.POST("/authorize", handlers.Gate.Authorize)

	documents := router.Group("/documents")
	{
		documents.POST("/next-number", handlers.Numbering.NextNumber)
	}

	accounts := router.Group("/accounts")
	{
		accounts.PUT("/:id", handlers.Account.UpsertAccount)
		accounts.GET("/:id", handlers.Account.GetAccount)
		accounts.GET("/:id/usage", handlers.Gate.GetUsage)
		accounts.GET("/:id/usage/history", handlers.Gate.GetUsageHistory)
		accounts.GET("/:id/templates/:template_id", handlers.Gate.CheckTemplate)
		accounts.GET("/:id/numbering", handlers.Numbering.GetSettings)
		accounts.PUT("/:id/numbering", handlers.Numbering.UpdateSettings)
	}

	plans := router.Group("/plans")
	{
		plans.GET("", handlers.Plan.ListPlans)
		plans.GET("/:id", handlers.Plan.GetPlan)
	}
}
