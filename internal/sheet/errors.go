package sheet

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by ParseError.
var (
	ErrUnknownGroup      = errors.New("unknown group header")
	ErrNoGroup           = errors.New("data row before any group header")
	ErrNoPreviousRow     = errors.New("carry-forward placeholder without a previous row")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrInvalidPullNumber = errors.New("invalid pull request number")
)

// ParseError reports malformed or unexpected spreadsheet input.
// Line is the 1-based line of the CSV export where the offending record
// starts, banner rows included. For FromRows it is the 1-based row index.
type ParseError struct {
	Line  int
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("sheet line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("sheet line %d: %v: %q", e.Line, e.Err, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
