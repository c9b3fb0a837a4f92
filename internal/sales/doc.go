// Package sales is the metric and filter engine of the dashboard.
//
// It works on the normalized tables produced by package workbook and never
// mutates them: every filter, reshape and aggregation returns fresh values.
// The main entry points are FilterByPeriod, AggregateKPIs,
// ReshapeClientSales and PeriodLabel; MonthlySeries, GroupByQuarter and
// Options feed the individual charts and filter controls.
package sales
