// Package errors maps application and data errors onto HTTP responses.
//
// Handlers return plain errors; ErrorHandler classifies them (workbook schema
// mismatches, unknown month labels, missing data sources, validation
// failures, APIError and AppError values) and renders RFC 7807 problem
// documents through go-chi/render.
package errors
