package sales

import (
	"fmt"
	"sort"
	"strings"

	"salespulse/pkg/contracts/domain"
)

// PeriodCriteria restricts a sales table by quarter, month and year.
//
// An empty list (or empty Year) means "everything allowed", matching the
// dashboard controls which default to the full set of options. It never
// means "nothing matches".
type PeriodCriteria struct {
	Quarters []string `json:"quarters,omitempty" validate:"omitempty,dive,quarter"`
	Months   []string `json:"months,omitempty" validate:"omitempty,dive,month"`
	Year     string   `json:"year,omitempty" validate:"omitempty,numeric,len=4"`
}

// IsEmpty reports whether the criteria select everything.
func (c PeriodCriteria) IsEmpty() bool {
	return len(c.Quarters) == 0 && len(c.Months) == 0 && strings.TrimSpace(c.Year) == ""
}

// Validate checks that every selected month and quarter is known.
func (c PeriodCriteria) Validate() error {
	for _, q := range c.Quarters {
		if !IsQuarter(q) {
			return fmt.Errorf("%w: %q", ErrInvalidQuarter, q)
		}
	}
	for _, m := range c.Months {
		if _, ok := MonthNumber(m); !ok {
			return &UnknownMonthError{Label: m}
		}
	}
	return nil
}

type periodMatcher struct {
	quarters map[string]struct{}
	months   map[string]struct{}
	year     string
}

func newPeriodMatcher(c PeriodCriteria) periodMatcher {
	m := periodMatcher{year: strings.TrimSpace(c.Year)}
	if len(c.Quarters) > 0 {
		m.quarters = make(map[string]struct{}, len(c.Quarters))
		for _, q := range c.Quarters {
			m.quarters[NormalizeQuarter(q)] = struct{}{}
		}
	}
	if len(c.Months) > 0 {
		m.months = make(map[string]struct{}, len(c.Months))
		for _, month := range c.Months {
			m.months[foldKey(month)] = struct{}{}
		}
	}
	return m
}

func (m periodMatcher) match(r domain.SalesRecord) bool {
	if m.quarters != nil {
		if _, ok := m.quarters[NormalizeQuarter(r.Quarter)]; !ok {
			return false
		}
	}
	if m.months != nil {
		if _, ok := m.months[foldKey(r.Month)]; !ok {
			return false
		}
	}
	if m.year != "" && strings.TrimSpace(r.Year) != m.year {
		return false
	}
	return true
}

// FilterByPeriod returns a new table holding the rows of t that satisfy all
// three restrictions. Row order is preserved and t is left untouched.
func FilterByPeriod(t *domain.SalesTable, c PeriodCriteria) *domain.SalesTable {
	if t == nil {
		return &domain.SalesTable{}
	}
	m := newPeriodMatcher(c)
	out := make([]domain.SalesRecord, 0, len(t.Records))
	for _, r := range t.Records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return t.WithRecords(out)
}

// SortChronologically returns a copy of records ordered by year then month.
// Rows with an unknown month keep their relative order after known months
// of the same year.
func SortChronologically(records []domain.SalesRecord) []domain.SalesRecord {
	out := make([]domain.SalesRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		yi, yj := strings.TrimSpace(out[i].Year), strings.TrimSpace(out[j].Year)
		if yi != yj {
			return yi < yj
		}
		return monthOrder(out[i].Month) < monthOrder(out[j].Month)
	})
	return out
}

func monthOrder(label string) int {
	if n, ok := MonthNumber(label); ok {
		return n
	}
	return len(Months) + 1
}
