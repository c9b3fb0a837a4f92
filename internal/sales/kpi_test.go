package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/pkg/contracts/domain"
)

func TestAggregateKPIs(t *testing.T) {
	tests := []struct {
		name       string
		records    []domain.SalesRecord
		target     string
		billed     string
		gap        string
		attainment string
	}{
		{
			name: "two months",
			records: []domain.SalesRecord{
				rec("Enero", "Q1", "2025", 1000, 800),
				rec("Febrero", "Q1", "2025", 500, 600),
			},
			target:     "1500",
			billed:     "1400",
			gap:        "100",
			attainment: "93.33",
		},
		{
			name:       "empty input",
			records:    nil,
			target:     "0",
			billed:     "0",
			gap:        "0",
			attainment: "0",
		},
		{
			name: "zero target",
			records: []domain.SalesRecord{
				rec("Enero", "Q1", "2025", 0, 250),
			},
			target:     "0",
			billed:     "250",
			gap:        "-250",
			attainment: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := AggregateKPIs(tt.records)
			assert.Equal(t, tt.target, k.TotalTarget.String())
			assert.Equal(t, tt.billed, k.TotalBilled.String())
			assert.Equal(t, tt.gap, k.TotalGap.String())
			assert.Equal(t, tt.attainment, k.AttainmentPct.String())
			assert.Equal(t, len(tt.records), k.Periods)
		})
	}
}

func TestAttainmentPct_ZeroTarget(t *testing.T) {
	for _, billed := range []string{"0", "1", "-5", "123456.78"} {
		got := AttainmentPct(decimal.RequireFromString(billed), decimal.Zero)
		assert.True(t, got.IsZero(), "billed=%s", billed)
	}
}

func TestAggregateKPIs_IsLinear(t *testing.T) {
	table := sampleTable()
	left := FilterByPeriod(table, PeriodCriteria{Year: "2025"})
	right := FilterByPeriod(table, PeriodCriteria{Year: "2024"})
	require.Equal(t, table.Len(), left.Len()+right.Len())

	whole := AggregateKPIs(table.Records)
	combined := CombineKPIs(AggregateKPIs(left.Records), AggregateKPIs(right.Records))

	assert.True(t, whole.TotalTarget.Equal(combined.TotalTarget))
	assert.True(t, whole.TotalBilled.Equal(combined.TotalBilled))
	assert.True(t, whole.TotalGap.Equal(combined.TotalGap))
	assert.True(t, whole.AttainmentPct.Equal(combined.AttainmentPct))
	assert.Equal(t, whole.Periods, combined.Periods)

	// Attainment is recomputed from totals, not averaged.
	avg := AggregateKPIs(left.Records).AttainmentPct.Add(AggregateKPIs(right.Records).AttainmentPct).Div(decimal.NewFromInt(2))
	assert.False(t, avg.Round(2).Equal(whole.AttainmentPct))
}

func TestBacklogCountsTowardTotal(t *testing.T) {
	r := domain.SalesRecord{
		Target:  d("1000"),
		Billed:  d("700"),
		Backlog: d("200"),
	}
	r.Derive(true)
	assert.Equal(t, "900", r.TotalBilled.String())
	assert.Equal(t, "100", r.Gap.String())
	assert.True(t, r.GapFlagged())

	r.Derive(false)
	assert.Equal(t, "700", r.TotalBilled.String())

	over := rec("Enero", "Q1", "2025", 100, 150)
	assert.False(t, over.GapFlagged())
	even := rec("Enero", "Q1", "2025", 100, 100)
	assert.False(t, even.GapFlagged())
}

func TestMonthlySeries(t *testing.T) {
	records := []domain.SalesRecord{
		rec("Enero", "Q1", "2025", 1000, 800),
		rec("Febrero", "Q1", "2025", 500, 600),
		rec("Marzo", "Q1", "2025", 0, 50),
	}
	points := MonthlySeries(records)
	require.Len(t, points, 3)

	assert.Equal(t, "Enero - 2025", points[0].Label)
	assert.Equal(t, "800", points[0].CumulativeBilled.String())
	assert.Equal(t, "1400", points[1].CumulativeBilled.String())
	assert.Equal(t, "1450", points[2].CumulativeBilled.String())

	assert.Equal(t, "80", points[0].AttainmentPct.String())
	assert.Equal(t, "120", points[1].AttainmentPct.String())
	assert.True(t, points[2].AttainmentPct.IsZero())

	assert.True(t, points[0].GapFlagged)
	assert.False(t, points[1].GapFlagged)
}

func TestGroupByQuarter(t *testing.T) {
	got := GroupByQuarter(sampleTable().Records)
	require.Len(t, got, 3)

	assert.Equal(t, "Q1", got[0].Quarter)
	assert.Equal(t, "2600", got[0].Target.String())
	assert.Equal(t, "2200", got[0].Billed.String())
	assert.Equal(t, "400", got[0].Gap.String())
	assert.Equal(t, "84.62", got[0].AttainmentPct.String())

	assert.Equal(t, "Q2", got[1].Quarter)
	assert.Equal(t, "Q4", got[2].Quarter)
	assert.Equal(t, "-150", got[2].Gap.String())
}

func TestOptions(t *testing.T) {
	table := sampleTable()
	table.Records = append(table.Records, rec("Total", "", "2025", 0, 0))

	opts := Options(table)
	assert.Equal(t, []string{"Enero", "Febrero", "Marzo", "Abril", "Octubre", "Total"}, opts.Months)
	assert.Equal(t, []string{"Q1", "Q2", "Q4"}, opts.Quarters)
	assert.Equal(t, []string{"2024", "2025"}, opts.Years)

	empty := Options(nil)
	assert.Empty(t, empty.Months)
	assert.NotNil(t, empty.Years)
}
