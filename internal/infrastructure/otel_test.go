package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestInitializeOTel_Defaults(t *testing.T) {
	providers, err := InitializeOTel(nil, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider, "tracing is off by default")
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	require.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestPrometheusEndpointServesBusinessMetrics(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "salespulse-test",
		ServiceVersion: "test",
		Environment:    "test",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
	}, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.HTTPRequestsTotal.Add(context.Background(), 3)
	metrics.ExportsTotal.Add(context.Background(), 1)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "dashboard_exports_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	var spans bytes.Buffer
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:   "salespulse-test",
		TraceExporter: "stdout",
		EnableTracing: true,
		SampleRatio:   1.0,
		TraceWriter:   &spans,
	}, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	ctx, span := providers.Tracer.Start(context.Background(), "load-sheet")
	RecordError(ctx, errors.New("sheet missing"))
	RecordError(ctx, nil)
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, spans.String(), "load-sheet")
	assert.Contains(t, spans.String(), "sheet missing")
}

func TestInitializeOTel_UnsupportedExporters(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger", EnableTracing: true}, quietLogger())
	assert.Error(t, err)

	_, err = InitializeOTel(&OTelConfig{MetricExporter: "statsd", EnableMetrics: true}, quietLogger())
	assert.Error(t, err)
}

func TestInitializeOTel_Disabled(t *testing.T) {
	tel := config.Default().Telemetry
	tel.Enabled = false

	providers, err := InitializeOTel(OTelConfigFrom(tel, "1.0.0"), quietLogger())
	require.NoError(t, err)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.MeterProvider)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.ReloadsTotal.Add(context.Background(), 1)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestCreateBusinessMetrics_NilMeter(t *testing.T) {
	metrics, err := CreateBusinessMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, metrics.DashboardQueries)
}
