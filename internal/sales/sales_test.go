package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/pkg/contracts/domain"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func rec(month, quarter, year string, target, billed int64) domain.SalesRecord {
	r := domain.SalesRecord{
		Month:   month,
		Quarter: quarter,
		Year:    year,
		Target:  decimal.NewFromInt(target),
		Billed:  decimal.NewFromInt(billed),
	}
	r.Derive(false)
	return r
}

func sampleTable() *domain.SalesTable {
	return &domain.SalesTable{
		Source: "test.xlsx",
		Sheet:  "data1",
		Records: []domain.SalesRecord{
			rec("Enero", "Q1", "2025", 1000, 800),
			rec("Febrero", "Q1", "2025", 500, 600),
			rec("Marzo", "Q1", "2025", 700, 700),
			rec("Abril", "Q2", "2025", 900, 300),
			rec("Marzo", "Q1", "2024", 400, 100),
			rec("Octubre", "Q4", "2024", 300, 450),
		},
	}
}

func TestMonthNumber(t *testing.T) {
	tests := []struct {
		label string
		want  int
		ok    bool
	}{
		{"Enero", 1, true},
		{"  marzo ", 3, true},
		{"DICIEMBRE", 12, true},
		{"Setiembre", 9, true},
		{"Septiembre", 9, true},
		{"Ábril", 4, true},
		{"January", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := MonthNumber(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalMonth_Unknown(t *testing.T) {
	_, err := CanonicalMonth("Smarch")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownMonth)

	var ume *UnknownMonthError
	require.ErrorAs(t, err, &ume)
	assert.Equal(t, "Smarch", ume.Label)
}

func TestMonthLabelFromColumn(t *testing.T) {
	assert.Equal(t, "Enero", MonthLabelFromColumn("vta_enero", "vta_"))
	assert.Equal(t, "Septiembre", MonthLabelFromColumn("VTA_SEPTIEMBRE", "vta_"))
	assert.Equal(t, "Marzo", MonthLabelFromColumn("marzo", "vta_"))
}

func TestNormalizeQuarter(t *testing.T) {
	assert.Equal(t, "Q1", NormalizeQuarter("q1"))
	assert.Equal(t, "Q2", NormalizeQuarter("T2"))
	assert.Equal(t, "Q3", NormalizeQuarter("3T"))
	assert.Equal(t, "Q4", NormalizeQuarter("4"))
	assert.Equal(t, "Q2", NormalizeQuarter("Trimestre 2"))
	assert.Equal(t, "Q5", NormalizeQuarter("Q5"))
	assert.False(t, IsQuarter("Q5"))
	assert.Equal(t, "Q3", QuarterOfMonth(9))
	assert.Equal(t, "", QuarterOfMonth(13))
}

func TestPeriodLabelAndSortKey(t *testing.T) {
	assert.Equal(t, "Enero - 2025", PeriodLabel("Enero", "2025"))
	assert.Equal(t, "2025-01", SortKey("2025", 1))
	assert.Equal(t, "2024-11", SortKey(" 2024 ", 11))
}

func TestFilterByPeriod(t *testing.T) {
	table := sampleTable()

	tests := []struct {
		name     string
		criteria PeriodCriteria
		want     []string
	}{
		{
			name:     "empty criteria keep everything",
			criteria: PeriodCriteria{},
			want:     []string{"Enero", "Febrero", "Marzo", "Abril", "Marzo", "Octubre"},
		},
		{
			name:     "empty quarters list means all quarters",
			criteria: PeriodCriteria{Quarters: []string{}, Months: []string{"Marzo"}},
			want:     []string{"Marzo", "Marzo"},
		},
		{
			name:     "quarter and year",
			criteria: PeriodCriteria{Quarters: []string{"Q1"}, Year: "2025"},
			want:     []string{"Enero", "Febrero", "Marzo"},
		},
		{
			name:     "months are matched case-insensitively",
			criteria: PeriodCriteria{Months: []string{"abril", "OCTUBRE"}},
			want:     []string{"Abril", "Octubre"},
		},
		{
			name:     "restrictions are combined with AND",
			criteria: PeriodCriteria{Quarters: []string{"Q2"}, Months: []string{"Enero"}},
			want:     []string{},
		},
		{
			name:     "year without rows",
			criteria: PeriodCriteria{Year: "2030"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByPeriod(table, tt.criteria)
			months := make([]string, 0, got.Len())
			for _, r := range got.Records {
				months = append(months, r.Month)
			}
			assert.Equal(t, tt.want, months)
			assert.LessOrEqual(t, got.Len(), table.Len())
			assert.Equal(t, table.Sheet, got.Sheet)
		})
	}
}

func TestFilterByPeriod_DoesNotMutateInput(t *testing.T) {
	table := sampleTable()
	before := make([]domain.SalesRecord, len(table.Records))
	copy(before, table.Records)

	got := FilterByPeriod(table, PeriodCriteria{Months: []string{"Enero"}})
	require.Equal(t, 1, got.Len())
	got.Records[0].Month = "changed"

	assert.Equal(t, before, table.Records)
}

func TestFilterByPeriod_ResultIsSubset(t *testing.T) {
	table := sampleTable()
	criteria := []PeriodCriteria{
		{Quarters: []string{"Q1", "Q4"}},
		{Months: []string{"Marzo", "Abril"}, Year: "2025"},
		{Year: "2024"},
	}
	for _, c := range criteria {
		got := FilterByPeriod(table, c)
		for _, r := range got.Records {
			assert.Contains(t, table.Records, r)
		}
	}
}

func TestPeriodCriteria_Validate(t *testing.T) {
	assert.NoError(t, PeriodCriteria{Quarters: []string{"Q1", "t2"}, Months: []string{"enero"}}.Validate())
	assert.ErrorIs(t, PeriodCriteria{Quarters: []string{"Q9"}}.Validate(), ErrInvalidQuarter)
	assert.ErrorIs(t, PeriodCriteria{Months: []string{"Foo"}}.Validate(), ErrUnknownMonth)
	assert.True(t, PeriodCriteria{}.IsEmpty())
	assert.False(t, PeriodCriteria{Year: "2025"}.IsEmpty())
}

func TestSortChronologically(t *testing.T) {
	records := []domain.SalesRecord{
		rec("Marzo", "Q1", "2025", 1, 1),
		rec("Enero", "Q1", "2025", 1, 1),
		rec("Diciembre", "Q4", "2024", 1, 1),
	}
	got := SortChronologically(records)
	assert.Equal(t, "Diciembre", got[0].Month)
	assert.Equal(t, "Enero", got[1].Month)
	assert.Equal(t, "Marzo", got[2].Month)
	assert.Equal(t, "Marzo", records[0].Month)
}
