package http

import (
	"context"

	"salespulse/internal/sales"
	"salespulse/internal/services"
	"salespulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handler
// serves. *services.DashboardService implements it.
type DashboardServiceInterface interface {
	Variant() string
	Options(ctx context.Context) (domain.FilterOptions, error)
	Records(ctx context.Context, c sales.PeriodCriteria) (*domain.SalesTable, error)
	KPIs(ctx context.Context, c sales.PeriodCriteria) (domain.KPIs, error)
	Series(ctx context.Context, c sales.PeriodCriteria) ([]domain.MonthlyPoint, error)
	Quarters(ctx context.Context, c sales.PeriodCriteria) ([]domain.QuarterTotal, error)
	Summary(ctx context.Context, c sales.PeriodCriteria) (*services.DashboardSummary, error)
	ClientSales(ctx context.Context, q services.ClientQuery) (*services.ClientSalesView, error)
	KeyAccounts(ctx context.Context) ([]string, error)
	Sheets(ctx context.Context) ([]string, error)
	Reload(ctx context.Context) (*services.ReloadResult, error)
}
