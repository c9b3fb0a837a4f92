package workbook

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "salespulse/workbook"

// Metrics holds the workbook loading instruments.
type Metrics struct {
	LoadsTotal   metric.Int64Counter
	LoadErrors   metric.Int64Counter
	LoadDuration metric.Float64Histogram
	RowsLoaded   metric.Int64Counter
	CacheHits    metric.Int64Counter
	CacheMisses  metric.Int64Counter
}

// NewMetrics creates the workbook instruments on meter. A nil meter yields
// no-op instruments.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(instrumentationName)
	}

	loadsTotal, err := meter.Int64Counter(
		"workbook_loads_total",
		metric.WithDescription("Total number of sheet loads from the workbook source"),
	)
	if err != nil {
		return nil, err
	}

	loadErrors, err := meter.Int64Counter(
		"workbook_load_errors_total",
		metric.WithDescription("Total number of failed sheet loads"),
	)
	if err != nil {
		return nil, err
	}

	loadDuration, err := meter.Float64Histogram(
		"workbook_load_duration_seconds",
		metric.WithDescription("Sheet load and parse duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"workbook_rows_loaded_total",
		metric.WithDescription("Total number of data rows parsed from sheets"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"workbook_cache_hits_total",
		metric.WithDescription("Total number of table lookups served from the cache"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"workbook_cache_misses_total",
		metric.WithDescription("Total number of table lookups that read the source"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		LoadsTotal:   loadsTotal,
		LoadErrors:   loadErrors,
		LoadDuration: loadDuration,
		RowsLoaded:   rowsLoaded,
		CacheHits:    cacheHits,
		CacheMisses:  cacheMisses,
	}, nil
}

func noopMetrics() *Metrics {
	m, _ := NewMetrics(nil)
	return m
}
