// Package http implements the HTTP handlers of the dashboard API. Handlers
// stay thin: they decode and validate query strings, call the dashboard
// service and render JSON, or RFC 7807 problem details on failure.
//
// # Routes
//
// Mounted under /api:
//
//	GET  /sales/options            months, quarters and years in the sheet
//	GET  /sales/records            filtered rows, chronological
//	GET  /sales/kpis               target, billed, gap and attainment
//	GET  /sales/series             monthly chart points
//	GET  /sales/quarters           per-quarter totals
//	GET  /sales/summary            kpis, series and quarters in one call
//	GET  /clients/sales            long-form client sales and totals
//	GET  /clients/key-accounts     key account names
//	GET  /export/sales.{csv,xlsx}  filtered rows as a download
//	GET  /export/clients.{csv,xlsx}
//	GET  /workbook/sheets
//	POST /workbook/reload          drop cached tables
//	GET  /health, /health/live, /health/ready, /health/detailed, /version
//
// # Query strings
//
// Sales views take quarter, month and year; client views take client,
// month, year and key_accounts. Repeated keys and comma-separated values
// are equivalent (?quarter=Q1&quarter=Q2 or ?quarter=Q1,Q2), except client
// names, which may contain commas. An absent filter selects everything.
//
// # Errors
//
// Every error goes through errors.ErrorHandler:
//
//	invalid criteria          400 /errors/validation
//	missing columns           422 /errors/data/schema-mismatch
//	unknown month label       422 /errors/data/unknown-month
//	unparseable amount        422 /errors/data/invalid-cell
//	workbook or sheet missing 503 /errors/data/not-found
package http
