package exporter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"salespulse/internal/sales"
	"salespulse/pkg/contracts/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// SalesHeaders are the columns of an exported sales table.
var SalesHeaders = []string{"Mes", "Trimestre", "Año", "Meta", "Facturado", "Backlog", "Total facturado", "GAP", "Avance %"}

// ClientHeaders are the columns of an exported client sales table.
var ClientHeaders = []string{"Cliente", "Año", "Mes", "Periodo", "Ventas"}

// formatDecimal formats an amount with exactly 2 decimal places
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// SalesRows converts records into CSV rows, one per period.
func SalesRows(records []domain.SalesRecord) [][]string {
	out := make([][]string, 0, len(records))
	for _, r := range records {
		out = append(out, []string{
			r.Month,
			r.Quarter,
			r.Year,
			formatDecimal(r.Target),
			formatDecimal(r.Billed),
			formatDecimal(r.Backlog),
			formatDecimal(r.TotalBilled),
			formatDecimal(r.Gap),
			formatDecimal(sales.AttainmentPct(r.TotalBilled, r.Target)),
		})
	}
	return out
}

// ClientRows converts long-form client sales into CSV rows.
func ClientRows(rows []domain.ClientMonthlySale) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Client, r.Year, r.Month, r.Label, formatDecimal(r.Amount)})
	}
	return out
}
