package transport

import (
	"net/http"

	"bikeparts/internal/middleware"
	"bikeparts/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DashboardHandler handles HTTP requests for admin statistics
type DashboardHandler struct {
	dashboardService service.DashboardService
	orderService     service.OrderService
	catalogService   service.CatalogService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	dashboardService service.DashboardService,
	orderService service.OrderService,
	catalogService service.CatalogService,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		orderService:     orderService,
		catalogService:   catalogService,
		logger:           logger,
	}
}

// RegisterRoutes registers the dashboard route, operators only
func (h *DashboardHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/stats", h.Stats)
	})
}

// Stats derives dashboard figures from fresh store snapshots
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if err := h.orderService.Refresh(r.Context()); err != nil {
		h.logger.Error("Failed to refresh orders for dashboard", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	if err := h.catalogService.Refresh(r.Context()); err != nil {
		h.logger.Error("Failed to refresh catalog for dashboard", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	stats := h.dashboardService.Stats(h.orderService.Snapshot(), h.catalogService.Snapshot())
	middleware.RespondWithJSON(w, http.StatusOK, stats)
}
