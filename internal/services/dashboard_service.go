package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"salespulse/internal/config"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/sales"
	"salespulse/pkg/contracts/domain"
)

// SalesLoader reads normalized tables from the configured workbook.
// *workbook.Loader implements it.
type SalesLoader interface {
	SourceID() string
	Sheets(ctx context.Context) ([]string, error)
	LoadSales(ctx context.Context, sheet string) (*domain.SalesTable, error)
	LoadClientSales(ctx context.Context, sheet, prefix string) (*domain.ClientSalesTable, error)
	Invalidate()
}

// ClientQuery selects the per-client view. Empty lists mean everything;
// KeyAccountsOnly narrows Clients to the configured key accounts.
type ClientQuery struct {
	Clients         []string `json:"clients,omitempty" validate:"omitempty,dive,max=200"`
	Months          []string `json:"months,omitempty" validate:"omitempty,dive,month"`
	Years           []string `json:"years,omitempty" validate:"omitempty,dive,numeric,len=4"`
	KeyAccountsOnly bool     `json:"key_accounts_only,omitempty"`
}

// ClientSalesView is the long-form client table plus per-client totals and
// the values offered by the client filters.
type ClientSalesView struct {
	Rows    []domain.ClientMonthlySale `json:"rows"`
	Totals  []domain.ClientTotal       `json:"totals"`
	Years   []string                   `json:"years"`
	Clients []string                   `json:"clients"`
}

// DashboardSummary bundles everything the overview page shows for one
// selection.
type DashboardSummary struct {
	Title    string                `json:"title"`
	Variant  string                `json:"variant"`
	Sheet    string                `json:"sheet"`
	Criteria sales.PeriodCriteria  `json:"criteria"`
	KPIs     domain.KPIs           `json:"kpis"`
	Series   []domain.MonthlyPoint `json:"series"`
	Quarters []domain.QuarterTotal `json:"quarters"`
}

// ReloadResult reports a cache invalidation.
type ReloadResult struct {
	Source     string    `json:"source"`
	Sheet      string    `json:"sheet"`
	Records    int       `json:"records"`
	ReloadedAt time.Time `json:"reloaded_at"`
}

// DashboardService runs the metric and filter engine over the tables of the
// configured workbook.
type DashboardService struct {
	loader      SalesLoader
	title       string
	variant     string
	salesSheet  string
	clientSheet string
	monthPrefix string
	keyAccounts []string
	logger      *slog.Logger
}

// NewDashboardService wires the service to the dashboard section of cfg.
func NewDashboardService(cfg *config.Config, loader SalesLoader, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &DashboardService{
		loader:      loader,
		title:       cfg.Dashboard.Title,
		variant:     cfg.Dashboard.Variant,
		salesSheet:  cfg.SalesSheet(),
		clientSheet: cfg.Workbook.ClientSheet,
		monthPrefix: cfg.Dashboard.MonthPrefix,
		keyAccounts: append([]string(nil), cfg.Dashboard.KeyAccounts...),
		logger:      logger.With(slog.String("component", "dashboard_service")),
	}

	s.logger.Info("DashboardService initialized",
		slog.String("source", loader.SourceID()),
		slog.String("variant", s.variant),
		slog.String("sales_sheet", s.salesSheet),
		slog.String("client_sheet", s.clientSheet),
		slog.Int("key_accounts", len(s.keyAccounts)))

	return s
}

// Variant returns the configured dashboard variant.
func (s *DashboardService) Variant() string { return s.variant }

// SalesSheet returns the sheet the sales views read.
func (s *DashboardService) SalesSheet() string { return s.salesSheet }

func (s *DashboardService) table(ctx context.Context) (*domain.SalesTable, error) {
	return s.loader.LoadSales(ctx, s.salesSheet)
}

func invalidCriteria(err error) error {
	return apierrors.NewAppValidationError(err.Error(), ErrInvalidCriteria)
}

// Options returns the months, quarters and years present in the sales sheet.
func (s *DashboardService) Options(ctx context.Context) (domain.FilterOptions, error) {
	t, err := s.table(ctx)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return sales.Options(t), nil
}

// Records returns the chronologically sorted periods matching c.
func (s *DashboardService) Records(ctx context.Context, c sales.PeriodCriteria) (*domain.SalesTable, error) {
	if err := c.Validate(); err != nil {
		return nil, invalidCriteria(err)
	}

	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}

	filtered := sales.FilterByPeriod(t, c)
	filtered = filtered.WithRecords(sales.SortChronologically(filtered.Records))

	s.logger.DebugContext(ctx, "records filtered",
		slog.Int("total", t.Len()),
		slog.Int("matched", filtered.Len()))

	return filtered, nil
}

// KPIs aggregates the periods matching c.
func (s *DashboardService) KPIs(ctx context.Context, c sales.PeriodCriteria) (domain.KPIs, error) {
	t, err := s.Records(ctx, c)
	if err != nil {
		return domain.KPIs{}, err
	}
	return sales.AggregateKPIs(t.Records), nil
}

// Series returns one point per period matching c, in chronological order.
func (s *DashboardService) Series(ctx context.Context, c sales.PeriodCriteria) ([]domain.MonthlyPoint, error) {
	t, err := s.Records(ctx, c)
	if err != nil {
		return nil, err
	}
	return sales.MonthlySeries(t.Records), nil
}

// Quarters returns per-quarter totals of the periods matching c.
func (s *DashboardService) Quarters(ctx context.Context, c sales.PeriodCriteria) ([]domain.QuarterTotal, error) {
	t, err := s.Records(ctx, c)
	if err != nil {
		return nil, err
	}
	return sales.GroupByQuarter(t.Records), nil
}

// Summary computes KPIs, series and quarter totals from a single filter pass.
func (s *DashboardService) Summary(ctx context.Context, c sales.PeriodCriteria) (*DashboardSummary, error) {
	t, err := s.Records(ctx, c)
	if err != nil {
		return nil, err
	}
	return &DashboardSummary{
		Title:    s.title,
		Variant:  s.variant,
		Sheet:    t.Sheet,
		Criteria: c,
		KPIs:     sales.AggregateKPIs(t.Records),
		Series:   sales.MonthlySeries(t.Records),
		Quarters: sales.GroupByQuarter(t.Records),
	}, nil
}

// KeyAccounts returns the configured key accounts, or every client in the
// client sheet when none are configured.
func (s *DashboardService) KeyAccounts(ctx context.Context) ([]string, error) {
	if len(s.keyAccounts) > 0 {
		return append([]string(nil), s.keyAccounts...), nil
	}
	t, err := s.loader.LoadClientSales(ctx, s.clientSheet, s.monthPrefix)
	if err != nil {
		return nil, err
	}
	return sales.ClientNames(t), nil
}

// ClientSales reshapes the client sheet into long form for q.
func (s *DashboardService) ClientSales(ctx context.Context, q ClientQuery) (*ClientSalesView, error) {
	for _, m := range q.Months {
		if _, ok := sales.MonthNumber(m); !ok {
			return nil, invalidCriteria(&sales.UnknownMonthError{Label: m})
		}
	}

	t, err := s.loader.LoadClientSales(ctx, s.clientSheet, s.monthPrefix)
	if err != nil {
		return nil, err
	}

	allowed, err := s.allowedClients(q)
	if err != nil {
		return nil, err
	}

	rows, err := sales.ReshapeClientSales(t, sales.ClientCriteria{
		MonthPrefix:    s.monthPrefix,
		AllowedClients: allowed,
		Months:         q.Months,
		Years:          q.Years,
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "client sales reshaped",
		slog.Int("clients", t.Len()),
		slog.Int("rows", len(rows)))

	return &ClientSalesView{
		Rows:    rows,
		Totals:  sales.ClientTotals(rows),
		Years:   sales.ClientYears(t),
		Clients: sales.ClientNames(t),
	}, nil
}

// allowedClients intersects the requested clients with the key accounts
// when the query asks for key accounts only.
func (s *DashboardService) allowedClients(q ClientQuery) ([]string, error) {
	if !q.KeyAccountsOnly || len(s.keyAccounts) == 0 {
		return q.Clients, nil
	}
	if len(q.Clients) == 0 {
		return s.keyAccounts, nil
	}

	keys := make(map[string]struct{}, len(s.keyAccounts))
	for _, k := range s.keyAccounts {
		keys[strings.ToUpper(strings.TrimSpace(k))] = struct{}{}
	}
	var out []string
	for _, c := range q.Clients {
		if _, ok := keys[strings.ToUpper(strings.TrimSpace(c))]; ok {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, invalidCriteria(fmt.Errorf("none of %v is a key account", q.Clients))
	}
	return out, nil
}

// Sheets lists the workbook's sheets.
func (s *DashboardService) Sheets(ctx context.Context) ([]string, error) {
	return s.loader.Sheets(ctx)
}

// Reload drops the cached tables and reads the sales sheet again so that
// schema problems surface immediately.
func (s *DashboardService) Reload(ctx context.Context) (*ReloadResult, error) {
	s.loader.Invalidate()

	t, err := s.table(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "reload failed",
			slog.String("sheet", s.salesSheet),
			slog.String("error", err.Error()))
		return nil, err
	}
	if t.Len() == 0 {
		return nil, apierrors.NewAppError(apierrors.ErrTypeNotFound,
			fmt.Sprintf("sheet %q has no data rows", s.salesSheet), ErrNoData).
			WithContext("sheet", s.salesSheet)
	}

	s.logger.InfoContext(ctx, "workbook reloaded",
		slog.String("source", s.loader.SourceID()),
		slog.Int("records", t.Len()))

	return &ReloadResult{
		Source:     s.loader.SourceID(),
		Sheet:      s.salesSheet,
		Records:    t.Len(),
		ReloadedAt: time.Now().UTC(),
	}, nil
}
