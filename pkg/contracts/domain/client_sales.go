package domain

import (
	"github.com/shopspring/decimal"
)

// ClientSalesRecord is one client x year row of the per-client sheet, with
// one value per month column.
type ClientSalesRecord struct {
	Client string                     `json:"client"`
	Year   string                     `json:"year"`
	Months map[string]decimal.Decimal `json:"months"`
}

// ClientSalesTable is the normalized content of a per-client sheet.
// MonthColumns keeps the sheet's column order.
type ClientSalesTable struct {
	Source       string              `json:"source"`
	Sheet        string              `json:"sheet"`
	MonthColumns []string            `json:"month_columns"`
	Records      []ClientSalesRecord `json:"records"`
}

// Len returns the number of rows.
func (t *ClientSalesTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// ClientMonthlySale is the long form of a client sales cell.
type ClientMonthlySale struct {
	Client      string          `json:"client"`
	Year        string          `json:"year"`
	Month       string          `json:"month"`
	MonthNumber int             `json:"month_number"`
	Amount      decimal.Decimal `json:"sales"`
	Label       string          `json:"label"`
	SortKey     string          `json:"sort_key"`
}

// ClientTotal is the summed sales of one client over the selected periods.
type ClientTotal struct {
	Client string          `json:"client"`
	Amount decimal.Decimal `json:"sales"`
}
