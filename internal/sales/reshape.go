package sales

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"salespulse/pkg/contracts/domain"
)

// DefaultMonthPrefix is the prefix of the wide month columns in the
// per-client sheet ("vta_enero" ... "vta_diciembre").
const DefaultMonthPrefix = "vta_"

// ClientCriteria drives ReshapeClientSales.
//
// As with PeriodCriteria, an empty AllowedClients, Months or Years list
// means "all allowed".
type ClientCriteria struct {
	MonthPrefix    string   `json:"-"`
	AllowedClients []string `json:"clients,omitempty"`
	Months         []string `json:"months,omitempty" validate:"omitempty,dive,month"`
	Years          []string `json:"years,omitempty" validate:"omitempty,dive,numeric,len=4"`
}

// Melt converts every wide month cell into a long row without filtering or
// grouping. A table with N clients and 12 month columns yields N*12 rows.
// A month column whose label is not a canonical month is fatal.
func Melt(t *domain.ClientSalesTable, prefix string) ([]domain.ClientMonthlySale, error) {
	if t == nil {
		return nil, nil
	}
	columns, err := resolveMonthColumns(t.MonthColumns, prefix)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ClientMonthlySale, 0, len(t.Records)*len(columns))
	for _, rec := range t.Records {
		year := strings.TrimSpace(rec.Year)
		for _, col := range columns {
			amount, ok := rec.Months[col.name]
			if !ok {
				amount = decimal.Zero
			}
			out = append(out, domain.ClientMonthlySale{
				Client:      strings.TrimSpace(rec.Client),
				Year:        year,
				Month:       col.month,
				MonthNumber: col.number,
				Amount:      amount,
				Label:       PeriodLabel(col.month, year),
				SortKey:     SortKey(year, col.number),
			})
		}
	}
	return out, nil
}

// ReshapeClientSales melts the wide table, keeps the allowed clients and the
// selected years and months, sums amounts per (client, year, month) and
// orders the result chronologically by SortKey, then by client.
func ReshapeClientSales(t *domain.ClientSalesTable, c ClientCriteria) ([]domain.ClientMonthlySale, error) {
	prefix := c.MonthPrefix
	if prefix == "" {
		prefix = DefaultMonthPrefix
	}
	long, err := Melt(t, prefix)
	if err != nil {
		return nil, err
	}

	clients := foldedSet(c.AllowedClients, func(s string) string { return strings.ToUpper(strings.TrimSpace(s)) })
	years := foldedSet(c.Years, strings.TrimSpace)
	months := make(map[int]struct{}, len(c.Months))
	for _, m := range c.Months {
		n, ok := MonthNumber(m)
		if !ok {
			return nil, &UnknownMonthError{Label: m}
		}
		months[n] = struct{}{}
	}

	type groupKey struct {
		client string
		year   string
		month  int
	}
	grouped := make(map[groupKey]*domain.ClientMonthlySale)
	order := make([]groupKey, 0)

	for _, row := range long {
		if clients != nil {
			if _, ok := clients[strings.ToUpper(row.Client)]; !ok {
				continue
			}
		}
		if years != nil {
			if _, ok := years[row.Year]; !ok {
				continue
			}
		}
		if len(months) > 0 {
			if _, ok := months[row.MonthNumber]; !ok {
				continue
			}
		}

		key := groupKey{client: row.Client, year: row.Year, month: row.MonthNumber}
		if g, ok := grouped[key]; ok {
			g.Amount = g.Amount.Add(row.Amount)
			continue
		}
		r := row
		grouped[key] = &r
		order = append(order, key)
	}

	out := make([]domain.ClientMonthlySale, 0, len(order))
	for _, key := range order {
		out = append(out, *grouped[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortKey != out[j].SortKey {
			return out[i].SortKey < out[j].SortKey
		}
		return out[i].Client < out[j].Client
	})
	return out, nil
}

// ClientTotals sums long rows per client, largest first.
func ClientTotals(rows []domain.ClientMonthlySale) []domain.ClientTotal {
	sums := make(map[string]decimal.Decimal)
	for _, r := range rows {
		sums[r.Client] = sums[r.Client].Add(r.Amount)
	}
	out := make([]domain.ClientTotal, 0, len(sums))
	for client, amount := range sums {
		out = append(out, domain.ClientTotal{Client: client, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Client < out[j].Client
	})
	return out
}

type monthColumn struct {
	name   string
	month  string
	number int
}

func resolveMonthColumns(columns []string, prefix string) ([]monthColumn, error) {
	out := make([]monthColumn, 0, len(columns))
	for _, col := range columns {
		label := MonthLabelFromColumn(col, prefix)
		n, ok := MonthNumber(label)
		if !ok {
			return nil, &UnknownMonthError{Label: label, Column: col}
		}
		out = append(out, monthColumn{name: col, month: Months[n-1], number: n})
	}
	return out, nil
}

func foldedSet(values []string, fold func(string) string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[fold(v)] = struct{}{}
	}
	return set
}
