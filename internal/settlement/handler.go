package settlement

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
	"github.com/kevtech-systems/maziwa/internal/shared"
	"github.com/kevtech-systems/maziwa/jobs"
)

// Handler exposes a manual trigger for the weekly run. The scheduler is the
// normal entry point; this exists for re-runs after a gateway outage. The run
// itself executes on the worker; the endpoint only enqueues.
type Handler struct {
	logger *slog.Logger
	client *asynq.Client
	now    func() time.Time
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, client *asynq.Client, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{logger: logger, client: client, now: now}
}

// Run enqueues a settlement run for the caller's company and current week.
// An already-settled week is rejected by the run guard on the worker side.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	claims := shared.ClaimsFromContext(r.Context())
	task, err := jobs.NewSettlementRunTask(claims.CompanyID, h.now())
	if err != nil {
		h.logger.Error("build settlement task", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	info, err := h.client.EnqueueContext(r.Context(), task, asynq.MaxRetry(2))
	if err != nil {
		h.logger.Error("enqueue settlement run", slog.Int64("company_id", claims.CompanyID), slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{
		"status":  "queued",
		"task_id": info.ID,
	})
}

// MountRoutes registers the settlement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/settlements/run", h.Run)
}
