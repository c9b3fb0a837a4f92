package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"salespulse/internal/sales"
	"salespulse/pkg/contracts/domain"
)

// Loader reads typed tables from a Source through a Cache.
type Loader struct {
	source  Source
	cache   *Cache
	metrics *Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewLoader wires a loader. A nil cache gets a private one; metrics may be
// nil.
func NewLoader(source Source, cache *Cache, metrics *Metrics, logger *slog.Logger) *Loader {
	if metrics == nil {
		metrics = noopMetrics()
	}
	if cache == nil {
		cache = NewCache(metrics)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		source:  source,
		cache:   cache,
		metrics: metrics,
		tracer:  otel.Tracer(instrumentationName),
		logger:  logger.With(slog.String("component", "workbook_loader")),
	}
}

// SourceID identifies the workbook the loader reads.
func (l *Loader) SourceID() string {
	return l.source.ID()
}

// Sheets lists the workbook's sheets. The list is not cached.
func (l *Loader) Sheets(ctx context.Context) ([]string, error) {
	return l.source.Sheets(ctx)
}

// LoadSales returns the monthly sales table of sheet.
func (l *Loader) LoadSales(ctx context.Context, sheet string) (*domain.SalesTable, error) {
	key := CacheKey{SourceID: l.source.ID(), Sheet: sheet, Kind: KindSales}
	v, err := l.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return l.load(ctx, key, func(rows [][]string) (any, int, error) {
			t, err := ParseSales(l.source.ID(), sheet, rows)
			if err != nil {
				return nil, 0, err
			}
			return t, t.Len(), nil
		})
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.SalesTable), nil
}

// LoadClientSales returns the per-client sales table of sheet. An empty
// prefix means sales.DefaultMonthPrefix.
func (l *Loader) LoadClientSales(ctx context.Context, sheet, prefix string) (*domain.ClientSalesTable, error) {
	if prefix == "" {
		prefix = sales.DefaultMonthPrefix
	}
	key := CacheKey{SourceID: l.source.ID(), Sheet: sheet, Kind: KindClientSales, Variant: prefix}
	v, err := l.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return l.load(ctx, key, func(rows [][]string) (any, int, error) {
			t, err := ParseClientSales(l.source.ID(), sheet, prefix, rows)
			if err != nil {
				return nil, 0, err
			}
			return t, t.Len(), nil
		})
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.ClientSalesTable), nil
}

// Invalidate drops every table this loader's source has cached.
func (l *Loader) Invalidate() {
	l.cache.InvalidateSource(l.source.ID())
	l.logger.Info("workbook cache invalidated", slog.String("source", l.source.ID()))
}

func (l *Loader) load(ctx context.Context, key CacheKey, parse func([][]string) (any, int, error)) (any, error) {
	ctx, span := l.tracer.Start(ctx, "workbook.load",
		trace.WithAttributes(
			attribute.String("workbook.source", key.SourceID),
			attribute.String("workbook.sheet", key.Sheet),
			attribute.String("workbook.kind", string(key.Kind)),
		))
	defer span.End()

	attrs := metric.WithAttributes(
		attribute.String("sheet", key.Sheet),
		attribute.String("kind", string(key.Kind)),
	)
	start := time.Now()
	l.metrics.LoadsTotal.Add(ctx, 1, attrs)

	fail := func(err error) (any, error) {
		l.metrics.LoadErrors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logger.ErrorContext(ctx, "failed to load sheet",
			slog.String("sheet", key.Sheet),
			slog.String("kind", string(key.Kind)),
			slog.String("error", err.Error()))
		return nil, err
	}

	rows, err := l.source.Rows(ctx, key.Sheet)
	if err != nil {
		return fail(err)
	}
	table, n, err := parse(rows)
	if err != nil {
		return fail(fmt.Errorf("failed to parse sheet %q: %w", key.Sheet, err))
	}

	elapsed := time.Since(start)
	l.metrics.LoadDuration.Record(ctx, elapsed.Seconds(), attrs)
	l.metrics.RowsLoaded.Add(ctx, int64(n), attrs)
	span.SetAttributes(attribute.Int("workbook.rows", n))

	l.logger.InfoContext(ctx, "sheet loaded",
		slog.String("sheet", key.Sheet),
		slog.String("kind", string(key.Kind)),
		slog.Int("rows", n),
		slog.Duration("duration", elapsed))
	return table, nil
}
