package dnd

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
	"github.com/kevtech-systems/maziwa/internal/shared"
)

// Handler exposes the reconciliation view over the DND audit log.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// Recent lists the latest permanent delivery failures for the caller's company.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	claims := shared.ClaimsFromContext(r.Context())
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	entries, err := h.repo.RecentForCompany(r.Context(), claims.CompanyID, limit)
	if err != nil {
		h.logger.Error("list dnd entries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, entries)
}

// MountRoutes registers the DND routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dnd-logs", h.Recent)
}
