package reports

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
	"github.com/kevtech-systems/maziwa/internal/shared"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// Handler serves report downloads.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	renderer *Renderer
}

// NewHandler constructs the handler. renderer is optional; without it PDF
// requests fail with a problem response.
func NewHandler(logger *slog.Logger, service *Service, renderer *Renderer) *Handler {
	return &Handler{logger: logger, service: service, renderer: renderer}
}

// Generate builds and encodes one report for the caller's company.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	claims := shared.ClaimsFromContext(r.Context())

	typ, err := ParseType(chi.URLParam(r, "type"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid report type", chi.URLParam(r, "type"))
		return
	}
	filter, err := ParseTimeFilter(r.URL.Query().Get("filter"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid time filter", r.URL.Query().Get("filter"))
		return
	}
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid format", r.URL.Query().Get("format"))
		return
	}

	rep, err := h.service.Build(r.Context(), claims.CompanyID, typ, filter)
	if err != nil {
		// An empty result set is a data condition, not a fault.
		if errors.Is(err, httpx.ErrNoData) {
			h.logger.Warn("report empty",
				slog.String("type", string(typ)),
				slog.Int64("company_id", claims.CompanyID),
			)
		} else {
			h.logger.Error("build report",
				slog.String("type", string(typ)),
				slog.Int64("company_id", claims.CompanyID),
				slog.Any("error", err),
			)
		}
		httpx.RespondError(w, err)
		return
	}

	switch format {
	case FormatExcel:
		buf := &bytes.Buffer{}
		if err := WriteExcel(buf, rep); err != nil {
			h.logger.Error("encode report workbook", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Report generation failed", "")
			return
		}
		httpx.Attachment(w, rep.Filename()+".xlsx", contentTypeXLSX)
		_, _ = buf.WriteTo(w)
	case FormatPDF:
		if h.renderer == nil {
			httpx.Problem(w, http.StatusServiceUnavailable, "PDF rendering unavailable", "")
			return
		}
		pdf, err := h.renderer.RenderPDF(r.Context(), rep)
		if err != nil {
			h.logger.Error("render report pdf", slog.Any("error", err))
			httpx.Problem(w, http.StatusBadGateway, "Report generation failed", "")
			return
		}
		httpx.Attachment(w, rep.Filename()+".pdf", contentTypePDF)
		_, _ = w.Write(pdf)
	default:
		httpx.JSON(w, http.StatusOK, rep)
	}
}

// MountRoutes registers the report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/{type}", h.Generate)
}
