package sales

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMonth is matched by every *UnknownMonthError.
	ErrUnknownMonth = errors.New("unknown month label")
	// ErrInvalidQuarter is returned when a quarter selection is not Q1..Q4.
	ErrInvalidQuarter = errors.New("invalid quarter")
)

// UnknownMonthError reports a month label that does not map onto the
// canonical twelve-month sequence.
type UnknownMonthError struct {
	Label  string
	Column string
}

func (e *UnknownMonthError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("unknown month label %q (column %q)", e.Label, e.Column)
	}
	return fmt.Sprintf("unknown month label %q", e.Label)
}

// Is makes errors.Is(err, ErrUnknownMonth) work.
func (e *UnknownMonthError) Is(target error) bool {
	return target == ErrUnknownMonth
}
