package http

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/writgo/licensing/internal/application/licensing/usecases"
	"github.com/writgo/licensing/internal/domain/credit"
	"github.com/writgo/licensing/internal/infrastructure/config"
	"github.com/writgo/licensing/internal/infrastructure/repository"
	"github.com/writgo/licensing/internal/interfaces/http/handlers"
	"github.com/writgo/licensing/internal/interfaces/http/middleware"
	sharedDB "github.com/writgo/licensing/internal/shared/db"
	"github.com/writgo/licensing/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine         *gin.Engine
	licenseHandler *handlers.LicenseHandler
	webhookHandler *handlers.WebhookHandler
	healthHandler  *handlers.HealthHandler
	development    bool
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	licenseRepo := repository.NewLicenseRepository(db, log)
	creditRepo := repository.NewCreditPeriodRepository(db, log)
	activityRepo := repository.NewActivityRepository(db, log)

	tm := sharedDB.NewTransactionManager(db)
	catalog := credit.NewCatalog(planCatalog(cfg))

	validateUC := usecases.NewValidateLicenseUseCase(licenseRepo, creditRepo, activityRepo, tm, log)
	consumeUC := usecases.NewConsumeCreditsUseCase(licenseRepo, creditRepo, activityRepo, tm, log)
	establishUC := usecases.NewEstablishPeriodUseCase(creditRepo, catalog, log)
	processUC := usecases.NewProcessBillingEventUseCase(licenseRepo, activityRepo, establishUC, catalog, tm, log)

	return &Router{
		engine:         engine,
		licenseHandler: handlers.NewLicenseHandler(validateUC, consumeUC, log),
		webhookHandler: handlers.NewWebhookHandler(processUC, cfg.Billing.WebhookSecret, log),
		healthHandler:  handlers.NewHealthHandler(db),
		development:    cfg.Server.IsDevelopment(),
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(logger.NewLogger()))
	r.engine.Use(middleware.Recovery())

	r.engine.GET("/health", r.healthHandler.Check)

	api := r.engine.Group("/", middleware.RequireHTTPS(r.development))
	{
		api.POST("/license/validate", r.licenseHandler.Validate)
		api.POST("/license/consume", r.licenseHandler.Consume)
		api.POST("/webhooks/subscription", r.webhookHandler.HandleSubscriptionEvent)
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// planCatalog converts configured plans into the domain catalog.
func planCatalog(cfg *config.Config) []credit.Plan {
	plans := make([]credit.Plan, 0, len(cfg.Plans.Plans))
	for _, p := range cfg.Plans.Plans {
		plans = append(plans, credit.Plan{
			PriceID:        p.PriceID,
			Name:           p.Name,
			MonthlyCredits: p.MonthlyCredits,
		})
	}
	return plans
}
