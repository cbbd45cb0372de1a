package reports

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/kevtech-systems/maziwa/internal/shared"
)

func serveReport(t *testing.T, logger *slog.Logger, path string) *httptest.ResponseRecorder {
	t.Helper()
	svc := NewService(ServiceConfig{
		Builder: NewBuilder(&fakeRepo{}, fixedNow),
		Logger:  logger,
	})
	h := NewHandler(logger, svc, nil)

	r := chi.NewRouter()
	h.MountRoutes(r)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(shared.ContextWithClaims(req.Context(), &shared.Claims{
		UserID:    1,
		Role:      "Admin",
		CompanyID: 1,
	}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestEmptyReportIsNotAFault(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	rec := serveReport(t, logger, "/reports/sales")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "No Data")
	require.Contains(t, logs.String(), "level=WARN")
	require.NotContains(t, logs.String(), "level=ERROR")
}

func TestUnknownReportTypeIsClientError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	rec := serveReport(t, logger, "/reports/payroll")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotContains(t, logs.String(), "level=ERROR")
}
