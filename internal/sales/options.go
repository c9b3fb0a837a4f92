package sales

import (
	"sort"
	"strings"

	"salespulse/pkg/contracts/domain"
)

// Options lists the distinct months, quarters and years present in t, which
// are also the defaults of the dashboard's multi-select controls. Months
// come in calendar order; labels that are not calendar months follow in the
// order they appear.
func Options(t *domain.SalesTable) domain.FilterOptions {
	opts := domain.FilterOptions{
		Months:   []string{},
		Quarters: []string{},
		Years:    []string{},
	}
	if t == nil {
		return opts
	}

	seenMonth := make(map[int]bool)
	var extraMonths []string
	seenExtra := make(map[string]bool)
	seenQuarter := make(map[string]bool)
	seenYear := make(map[string]bool)

	for _, r := range t.Records {
		if strings.TrimSpace(r.Month) != "" {
			if n, ok := MonthNumber(r.Month); ok {
				seenMonth[n] = true
			} else if !seenExtra[r.Month] {
				seenExtra[r.Month] = true
				extraMonths = append(extraMonths, r.Month)
			}
		}
		if q := NormalizeQuarter(r.Quarter); q != "" && !seenQuarter[q] {
			seenQuarter[q] = true
			opts.Quarters = append(opts.Quarters, q)
		}
		if y := strings.TrimSpace(r.Year); y != "" && !seenYear[y] {
			seenYear[y] = true
			opts.Years = append(opts.Years, y)
		}
	}

	for i, m := range Months {
		if seenMonth[i+1] {
			opts.Months = append(opts.Months, m)
		}
	}
	opts.Months = append(opts.Months, extraMonths...)

	sort.Slice(opts.Quarters, func(i, j int) bool {
		oi, oj := quarterOrder(opts.Quarters[i]), quarterOrder(opts.Quarters[j])
		if oi != oj {
			return oi < oj
		}
		return opts.Quarters[i] < opts.Quarters[j]
	})
	sort.Strings(opts.Years)
	return opts
}

// ClientYears lists the distinct years of a per-client table, ascending.
func ClientYears(t *domain.ClientSalesTable) []string {
	years := []string{}
	if t == nil {
		return years
	}
	seen := make(map[string]bool)
	for _, r := range t.Records {
		y := strings.TrimSpace(r.Year)
		if y != "" && !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Strings(years)
	return years
}

// ClientNames lists the distinct client names of a per-client table, sorted.
func ClientNames(t *domain.ClientSalesTable) []string {
	names := []string{}
	if t == nil {
		return names
	}
	seen := make(map[string]bool)
	for _, r := range t.Records {
		c := strings.TrimSpace(r.Client)
		if c != "" && !seen[c] {
			seen[c] = true
			names = append(names, c)
		}
	}
	sort.Strings(names)
	return names
}
