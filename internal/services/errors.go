package services

import "errors"

var (
	// ErrNoData is returned when the configured sheet has no data rows.
	ErrNoData = errors.New("no sales data loaded")
	// ErrInvalidCriteria wraps every rejected filter selection.
	ErrInvalidCriteria = errors.New("invalid filter criteria")
)
