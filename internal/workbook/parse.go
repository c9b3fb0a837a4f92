package workbook

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"salespulse/internal/sales"
	"salespulse/pkg/contracts/domain"
)

// amountReplacer strips currency symbols, thousand separators and spacing
// that survive when a sheet stores amounts as text.
var amountReplacer = strings.NewReplacer("S/.", "", "S/", "", "$", "", ",", "", " ", "", "\u00a0", "")

// parseAmount reads a monetary cell. Empty cells are zero and accounting
// style parentheses mark a negative value.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = amountReplacer.Replace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		v = v.Neg()
	}
	return v, nil
}

// parseYear coerces a year cell to text. Numeric cells such as "2025.0"
// become "2025"; anything else is kept as written.
func parseYear(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// ParseSales turns the rows of a monthly sales sheet into a typed table.
//
// Mes, Meta, Facturado and Año are required. Trimestre is derived from
// the month when absent, and Fac_backlog defaults to zero. When the sheet
// carries a backlog column, TotalBilled includes it.
func ParseSales(source, sheet string, rows [][]string) (*domain.SalesTable, error) {
	h := findHeader(rows, []string{ColMonth, ColTarget, ColBilled})
	if h < 0 {
		return nil, &SchemaError{Sheet: sheet, Missing: []string{ColMonth, ColTarget, ColBilled, ColYear}}
	}
	header := rows[h]
	cm := newColumnMap(header)

	monthIdx, okMonth := cm.index(ColMonth)
	targetIdx, okTarget := cm.index(ColTarget)
	billedIdx, okBilled := cm.index(ColBilled)
	yearIdx, okYear := cm.index(yearAliases...)
	quarterIdx, hasQuarter := cm.index(ColQuarter)
	backlogIdx, hasBacklog := cm.index(ColBacklog)

	var missing []string
	for _, c := range []struct {
		name string
		ok   bool
	}{{ColMonth, okMonth}, {ColTarget, okTarget}, {ColBilled, okBilled}, {ColYear, okYear}} {
		if !c.ok {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Sheet: sheet, Missing: missing}
	}

	table := &domain.SalesTable{
		Source:     source,
		Sheet:      sheet,
		HasBacklog: hasBacklog,
		Records:    make([]domain.SalesRecord, 0, len(rows)-h-1),
	}

	amount := func(row []string, rowNum, idx int, column string) (decimal.Decimal, error) {
		raw := cell(row, idx)
		v, err := parseAmount(raw)
		if err != nil {
			return decimal.Zero, &CellError{Sheet: sheet, Row: rowNum, Column: column, Value: raw, Cause: err}
		}
		return v, nil
	}

	for i := h + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		rowNum := i + 1

		rec := domain.SalesRecord{
			Month: cell(row, monthIdx),
			Year:  parseYear(cell(row, yearIdx)),
		}
		if canonical, err := sales.CanonicalMonth(rec.Month); err == nil {
			rec.Month = canonical
		}
		if hasQuarter && cell(row, quarterIdx) != "" {
			rec.Quarter = sales.NormalizeQuarter(cell(row, quarterIdx))
		} else if n, ok := sales.MonthNumber(rec.Month); ok {
			rec.Quarter = sales.QuarterOfMonth(n)
		}

		var err error
		if rec.Target, err = amount(row, rowNum, targetIdx, ColTarget); err != nil {
			return nil, err
		}
		if rec.Billed, err = amount(row, rowNum, billedIdx, ColBilled); err != nil {
			return nil, err
		}
		if hasBacklog {
			if rec.Backlog, err = amount(row, rowNum, backlogIdx, ColBacklog); err != nil {
				return nil, err
			}
		}
		rec.Derive(hasBacklog)
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// ParseClientSales turns the rows of a per-client sheet into a typed table.
// razon_social, Año and one prefixed column per calendar month are
// required. Prefixed columns that do not name a month are kept so the
// reshape step can reject them.
func ParseClientSales(source, sheet, prefix string, rows [][]string) (*domain.ClientSalesTable, error) {
	if prefix == "" {
		prefix = sales.DefaultMonthPrefix
	}
	h := findHeader(rows, []string{ColClient})
	if h < 0 {
		return nil, &SchemaError{Sheet: sheet, Missing: []string{ColClient, ColYear}}
	}
	header := rows[h]
	cm := newColumnMap(header)

	clientIdx, okClient := cm.index(ColClient)
	yearIdx, okYear := cm.index(yearAliases...)
	cols, covered := monthColumns(header, prefix)

	var missing []string
	if !okClient {
		missing = append(missing, ColClient)
	}
	if !okYear {
		missing = append(missing, ColYear)
	}
	for m := 1; m <= 12; m++ {
		if !covered[m] {
			missing = append(missing, expectedMonthColumn(prefix, m))
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Sheet: sheet, Missing: missing}
	}

	colIdx := make(map[string]int, len(cols))
	for _, c := range cols {
		colIdx[c], _ = cm.index(c)
	}

	table := &domain.ClientSalesTable{
		Source:       source,
		Sheet:        sheet,
		MonthColumns: cols,
		Records:      make([]domain.ClientSalesRecord, 0, len(rows)-h-1),
	}

	for i := h + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		rec := domain.ClientSalesRecord{
			Client: cell(row, clientIdx),
			Year:   parseYear(cell(row, yearIdx)),
			Months: make(map[string]decimal.Decimal, len(cols)),
		}
		for _, c := range cols {
			raw := cell(row, colIdx[c])
			v, err := parseAmount(raw)
			if err != nil {
				return nil, &CellError{Sheet: sheet, Row: i + 1, Column: c, Value: raw, Cause: err}
			}
			rec.Months[c] = v
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}
