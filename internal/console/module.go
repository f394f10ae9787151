package console

import (
	"lead_console_backend/internal/console/engine"
	"lead_console_backend/internal/console/handler"
	"lead_console_backend/internal/console/repository"
	"lead_console_backend/internal/console/service"
	apphttp "lead_console_backend/internal/http"
	"lead_console_backend/platform/logger"
	"lead_console_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the lead console domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new lead console module with all dependencies wired
func NewModule(pool *pgxpool.Pool, enqueuer service.TaskEnqueuer, cache *service.ViewCache, thresholds engine.Thresholds, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, enqueuer, cache, thresholds, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "console"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	views := ctx.Protected.Group("/lead-views")
	m.handler.RegisterRoutes(views)

	admin := ctx.Admin.Group("/lead-views")
	m.handler.RegisterAdminRoutes(admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
