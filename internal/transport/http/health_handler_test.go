package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/services"
	"salespulse/internal/shared/testutil"
)

type stubProbe struct {
	sheets []string
	err    error
}

func (s stubProbe) SourceID() string { return "ventas.xlsx" }

func (s stubProbe) Sheets(context.Context) ([]string, error) { return s.sheets, s.err }

func newHealthRouter(t *testing.T, probe services.WorkbookProbe) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewHealthService(services.BuildInfo{Version: "v1.0.0-test", BuildID: "abc"}, t.TempDir(), probe, []string{"data1"}, logger)
	return NewHealthHandler(svc, logger).Routes()
}

func TestHealthHandler_Endpoints(t *testing.T) {
	router := newHealthRouter(t, stubProbe{sheets: []string{"data1", "fac_cli"}})

	tests := []struct {
		name           string
		endpoint       string
		expectedStatus int
		expectedBody   string
	}{
		{"health check endpoint", "/health", http.StatusOK, `"status":"ok"`},
		{"liveness endpoint", "/health/live", http.StatusOK, `"status":"alive"`},
		{"readiness endpoint", "/health/ready", http.StatusOK, `"status":"ready"`},
		{"detailed endpoint", "/health/detailed", http.StatusOK, `"readiness"`},
		{"version endpoint", "/version", http.StatusOK, `"build_id":"abc"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.endpoint)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			assert.Contains(t, rec.Body.String(), "v1.0.0-test")
		})
	}
}

func TestHealthHandler_NotReady(t *testing.T) {
	router := newHealthRouter(t, stubProbe{sheets: []string{"fac_cli"}})
	rec := serve(router, http.MethodGet, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"not_ready"`)
	assert.Contains(t, rec.Body.String(), `data1`)

	router = newHealthRouter(t, stubProbe{err: errors.New("open ventas.xlsx: permission denied")})
	rec = serve(router, http.MethodGet, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "permission denied")

	rec = serve(router, http.MethodGet, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code, "liveness ignores the workbook")
}

func TestMetricsHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	prom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# HELP http_requests_total\n"))
	})

	rec := httptest.NewRecorder()
	NewMetricsHandler(prom, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	rec = httptest.NewRecorder()
	NewMetricsHandler(nil, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), apierrors.TypeServiceDown)
}
