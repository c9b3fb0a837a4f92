package workbook

import (
	"strings"

	"salespulse/internal/sales"
)

// Column names of the source sheets, in the workbook's locale.
const (
	ColMonth   = "Mes"
	ColQuarter = "Trimestre"
	ColTarget  = "Meta"
	ColBilled  = "Facturado"
	ColBacklog = "Fac_backlog"
	ColYear    = "Año"
	ColClient  = "razon_social"
)

// yearAliases are accepted in place of "Año" since the tilde is often lost
// when sheets are exported through other tools.
var yearAliases = []string{ColYear, "Anio", "Ano", "Year"}

// headerScanLimit bounds how many leading rows are searched for the header.
const headerScanLimit = 10

// columnMap resolves normalized header names to column indexes.
type columnMap map[string]int

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

func newColumnMap(header []string) columnMap {
	cm := make(columnMap, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := cm[key]; !dup {
			cm[key] = i
		}
	}
	return cm
}

func (cm columnMap) index(names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := cm[normalizeHeader(n)]; ok {
			return i, true
		}
	}
	return -1, false
}

// findHeader returns the index of the header row: the first of the leading
// rows that names at least one of the wanted columns, falling back to the
// first non-empty row.
func findHeader(rows [][]string, wanted []string) int {
	firstNonEmpty := -1
	for i := 0; i < len(rows) && i < headerScanLimit; i++ {
		if isBlankRow(rows[i]) {
			continue
		}
		if firstNonEmpty < 0 {
			firstNonEmpty = i
		}
		cm := newColumnMap(rows[i])
		if _, ok := cm.index(wanted...); ok {
			return i
		}
	}
	return firstNonEmpty
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// monthColumns returns the header names that carry the given prefix, in
// sheet order, and the canonical months they cover.
func monthColumns(header []string, prefix string) ([]string, map[int]bool) {
	var cols []string
	covered := make(map[int]bool)
	p := strings.ToLower(prefix)
	for _, h := range header {
		name := strings.TrimSpace(h)
		if !strings.HasPrefix(strings.ToLower(name), p) {
			continue
		}
		cols = append(cols, name)
		if n, ok := sales.MonthNumber(sales.MonthLabelFromColumn(name, prefix)); ok {
			covered[n] = true
		}
	}
	return cols, covered
}

// expectedMonthColumn is the column name reported when a month is missing.
func expectedMonthColumn(prefix string, month int) string {
	return prefix + strings.ToLower(sales.Months[month-1])
}
