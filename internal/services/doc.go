// Package services implements the business logic layer between the HTTP
// handlers and the workbook loader.
//
// DashboardService applies the sales filters and aggregations to the tables
// of the configured workbook. It validates selections, picks the sheet that
// backs the configured variant (targets or backlog) and restricts the client
// view to the configured key accounts. HealthService reports liveness and
// readiness, where readiness means the workbook opens and carries every
// sheet the dashboard reads.
//
// Services take a *slog.Logger by injection and log with a "component"
// attribute. Errors from the loader are returned unchanged so that
// internal/errors can map schema and data problems onto HTTP responses;
// rejected selections are wrapped in an AppError of type VALIDATION whose
// cause is ErrInvalidCriteria.
package services
