package sales

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Months is the canonical, chronologically ordered month sequence used as
// labels everywhere in the dashboard.
var Months = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// Quarters is the canonical quarter sequence.
var Quarters = []string{"Q1", "Q2", "Q3", "Q4"}

// monthIndex maps a folded month name to its 1-based number.
var monthIndex = func() map[string]int {
	idx := make(map[string]int, len(Months)+1)
	for i, m := range Months {
		idx[foldKey(m)] = i + 1
	}
	idx["setiembre"] = 9
	return idx
}()

// foldKey lowercases and strips diacritics so "MARZO", "marzo" and "Márzo"
// compare equal.
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = strings.TrimSpace(s)
	}
	return strings.ToLower(folded)
}

// MonthNumber returns the 1-based number of a month label.
func MonthNumber(label string) (int, bool) {
	n, ok := monthIndex[foldKey(label)]
	return n, ok
}

// CanonicalMonth maps any accepted spelling of a month onto its canonical
// label. Unknown labels yield an *UnknownMonthError.
func CanonicalMonth(label string) (string, error) {
	n, ok := MonthNumber(label)
	if !ok {
		return "", &UnknownMonthError{Label: label}
	}
	return Months[n-1], nil
}

// MonthLabelFromColumn turns a wide month column such as "vta_enero" into a
// display label ("Enero") by stripping prefix and title-casing the rest.
func MonthLabelFromColumn(column, prefix string) string {
	name := strings.TrimSpace(column)
	if prefix != "" && len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
		name = name[len(prefix):]
	}
	name = strings.ReplaceAll(name, "_", " ")
	return cases.Title(language.Spanish).String(strings.TrimSpace(name))
}

// QuarterOfMonth derives the quarter label of a 1-based month number.
func QuarterOfMonth(n int) string {
	if n < 1 || n > 12 {
		return ""
	}
	return Quarters[(n-1)/3]
}

// NormalizeQuarter accepts "Q1", "q1", "T1", "1T" and "1" and returns the
// canonical "Q1" form. Anything else is returned trimmed and upper-cased.
func NormalizeQuarter(label string) string {
	q := strings.ToUpper(strings.TrimSpace(label))
	q = strings.TrimPrefix(q, "TRIMESTRE ")
	switch {
	case len(q) == 2 && (q[0] == 'Q' || q[0] == 'T') && q[1] >= '1' && q[1] <= '4':
		return "Q" + q[1:]
	case len(q) == 2 && q[1] == 'T' && q[0] >= '1' && q[0] <= '4':
		return "Q" + q[:1]
	case len(q) == 1 && q[0] >= '1' && q[0] <= '4':
		return "Q" + q
	}
	return q
}

// IsQuarter reports whether label normalizes to one of Q1..Q4.
func IsQuarter(label string) bool {
	q := NormalizeQuarter(label)
	for _, known := range Quarters {
		if q == known {
			return true
		}
	}
	return false
}

// PeriodLabel is the grouping and display key used when several years are
// in view.
func PeriodLabel(month, year string) string {
	return fmt.Sprintf("%s - %s", month, year)
}

// SortKey composes the chronological sort key "YYYY-MM".
func SortKey(year string, month int) string {
	return fmt.Sprintf("%s-%02d", strings.TrimSpace(year), month)
}
