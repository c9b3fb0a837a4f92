package sales

import (
	"sort"

	"github.com/shopspring/decimal"

	"salespulse/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

// AttainmentPct returns billed/target*100 rounded to two decimals, or exactly
// zero when target is zero.
func AttainmentPct(billed, target decimal.Decimal) decimal.Decimal {
	if target.IsZero() {
		return decimal.Zero
	}
	return billed.Div(target).Mul(hundred).Round(2)
}

// AggregateKPIs sums target, billed and gap over records. Attainment is
// recomputed from the summed totals, never averaged.
func AggregateKPIs(records []domain.SalesRecord) domain.KPIs {
	k := domain.KPIs{
		TotalTarget: decimal.Zero,
		TotalBilled: decimal.Zero,
		TotalGap:    decimal.Zero,
	}
	for _, r := range records {
		k.TotalTarget = k.TotalTarget.Add(r.Target)
		k.TotalBilled = k.TotalBilled.Add(r.TotalBilled)
		k.TotalGap = k.TotalGap.Add(r.Gap)
	}
	k.Periods = len(records)
	k.AttainmentPct = AttainmentPct(k.TotalBilled, k.TotalTarget)
	return k
}

// CombineKPIs merges aggregates of disjoint row sets.
func CombineKPIs(parts ...domain.KPIs) domain.KPIs {
	k := domain.KPIs{
		TotalTarget: decimal.Zero,
		TotalBilled: decimal.Zero,
		TotalGap:    decimal.Zero,
	}
	for _, p := range parts {
		k.TotalTarget = k.TotalTarget.Add(p.TotalTarget)
		k.TotalBilled = k.TotalBilled.Add(p.TotalBilled)
		k.TotalGap = k.TotalGap.Add(p.TotalGap)
		k.Periods += p.Periods
	}
	k.AttainmentPct = AttainmentPct(k.TotalBilled, k.TotalTarget)
	return k
}

// MonthlySeries builds one point per row, in row order, with the running
// billed total and per-period attainment used by the monthly charts.
func MonthlySeries(records []domain.SalesRecord) []domain.MonthlyPoint {
	points := make([]domain.MonthlyPoint, 0, len(records))
	running := decimal.Zero
	for _, r := range records {
		running = running.Add(r.TotalBilled)
		points = append(points, domain.MonthlyPoint{
			Month:            r.Month,
			Quarter:          r.Quarter,
			Year:             r.Year,
			Label:            PeriodLabel(r.Month, r.Year),
			Target:           r.Target,
			Billed:           r.Billed,
			TotalBilled:      r.TotalBilled,
			Gap:              r.Gap,
			GapFlagged:       r.GapFlagged(),
			CumulativeBilled: running,
			AttainmentPct:    AttainmentPct(r.TotalBilled, r.Target),
		})
	}
	return points
}

// GroupByQuarter sums records per quarter. Known quarters come first in
// Q1..Q4 order, anything else follows alphabetically.
func GroupByQuarter(records []domain.SalesRecord) []domain.QuarterTotal {
	byQuarter := make(map[string]*domain.QuarterTotal)
	for _, r := range records {
		q := NormalizeQuarter(r.Quarter)
		total, ok := byQuarter[q]
		if !ok {
			total = &domain.QuarterTotal{
				Quarter:     q,
				Target:      decimal.Zero,
				Billed:      decimal.Zero,
				TotalBilled: decimal.Zero,
				Gap:         decimal.Zero,
			}
			byQuarter[q] = total
		}
		total.Target = total.Target.Add(r.Target)
		total.Billed = total.Billed.Add(r.Billed)
		total.TotalBilled = total.TotalBilled.Add(r.TotalBilled)
		total.Gap = total.Gap.Add(r.Gap)
	}

	out := make([]domain.QuarterTotal, 0, len(byQuarter))
	for _, total := range byQuarter {
		total.AttainmentPct = AttainmentPct(total.TotalBilled, total.Target)
		out = append(out, *total)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := quarterOrder(out[i].Quarter), quarterOrder(out[j].Quarter)
		if oi != oj {
			return oi < oj
		}
		return out[i].Quarter < out[j].Quarter
	})
	return out
}

func quarterOrder(q string) int {
	for i, known := range Quarters {
		if q == known {
			return i
		}
	}
	return len(Quarters)
}
