package domain

import (
	"github.com/shopspring/decimal"
)

// SalesRecord is one reporting period (month x year) of the targets sheet.
type SalesRecord struct {
	Month   string          `json:"month"`
	Quarter string          `json:"quarter"`
	Year    string          `json:"year"`
	Target  decimal.Decimal `json:"target"`
	Billed  decimal.Decimal `json:"billed"`
	Backlog decimal.Decimal `json:"backlog"`

	// Derived at load time
	TotalBilled decimal.Decimal `json:"total_billed"`
	Gap         decimal.Decimal `json:"gap"`
}

// GapFlagged reports whether the period is under target.
func (r SalesRecord) GapFlagged() bool {
	return r.Gap.IsPositive()
}

// Derive recomputes TotalBilled and Gap. Backlog only counts toward the
// billed total when includeBacklog is set.
func (r *SalesRecord) Derive(includeBacklog bool) {
	r.TotalBilled = r.Billed
	if includeBacklog {
		r.TotalBilled = r.Billed.Add(r.Backlog)
	}
	r.Gap = r.Target.Sub(r.TotalBilled)
}

// SalesTable is the normalized content of a targets sheet.
type SalesTable struct {
	Source     string        `json:"source"`
	Sheet      string        `json:"sheet"`
	HasBacklog bool          `json:"has_backlog"`
	Records    []SalesRecord `json:"records"`
}

// Len returns the number of rows.
func (t *SalesTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// WithRecords returns a table with the same metadata and the given rows.
func (t *SalesTable) WithRecords(records []SalesRecord) *SalesTable {
	return &SalesTable{
		Source:     t.Source,
		Sheet:      t.Sheet,
		HasBacklog: t.HasBacklog,
		Records:    records,
	}
}

// KPIs are the headline figures shown above the charts.
type KPIs struct {
	TotalTarget   decimal.Decimal `json:"total_target"`
	TotalBilled   decimal.Decimal `json:"total_billed"`
	TotalGap      decimal.Decimal `json:"total_gap"`
	AttainmentPct decimal.Decimal `json:"attainment_pct"`
	Periods       int             `json:"periods"`
}

// MonthlyPoint is one bar of the per-month charts.
type MonthlyPoint struct {
	Month            string          `json:"month"`
	Quarter          string          `json:"quarter"`
	Year             string          `json:"year"`
	Label            string          `json:"label"`
	Target           decimal.Decimal `json:"target"`
	Billed           decimal.Decimal `json:"billed"`
	TotalBilled      decimal.Decimal `json:"total_billed"`
	Gap              decimal.Decimal `json:"gap"`
	GapFlagged       bool            `json:"gap_flagged"`
	CumulativeBilled decimal.Decimal `json:"cumulative_billed"`
	AttainmentPct    decimal.Decimal `json:"attainment_pct"`
}

// QuarterTotal aggregates the periods of one quarter.
type QuarterTotal struct {
	Quarter       string          `json:"quarter"`
	Target        decimal.Decimal `json:"target"`
	Billed        decimal.Decimal `json:"billed"`
	TotalBilled   decimal.Decimal `json:"total_billed"`
	Gap           decimal.Decimal `json:"gap"`
	AttainmentPct decimal.Decimal `json:"attainment_pct"`
}

// FilterOptions lists the values offered by the multi-select controls.
type FilterOptions struct {
	Months   []string `json:"months"`
	Quarters []string `json:"quarters"`
	Years    []string `json:"years"`
}
