package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
	"github.com/kevtech-systems/maziwa/internal/shared"
)

// Handler serves the owner dashboard.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Get returns the dashboard overview for the caller's company.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	claims := shared.ClaimsFromContext(r.Context())
	overview, err := h.service.Overview(r.Context(), claims.CompanyID)
	if err != nil {
		h.logger.Error("build dashboard", slog.Int64("company_id", claims.CompanyID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, overview)
}

// MountRoutes registers the dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.Get)
}
