package domain

import (
	"errors"
	"fmt"
)

// ErrDataSourceUnavailable means neither the local dataset nor the remote
// fallback yielded data. Fatal for the run.
var ErrDataSourceUnavailable = errors.New("data source unavailable")

// MalformedInputError reports a dataset that violates the input contract:
// a missing required column, an unparseable sampleDate, an invalid count,
// or an empty dataset. The whole run aborts; there is no row-skipping.
type MalformedInputError struct {
	Line   int    // 1-based CSV line, 0 when not row-specific
	Column string // offending column, empty when not column-specific
	Reason string
}

func (e *MalformedInputError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("malformed input: line %d, column %q: %s", e.Line, e.Column, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("malformed input: line %d: %s", e.Line, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("malformed input: column %q: %s", e.Column, e.Reason)
	default:
		return "malformed input: " + e.Reason
	}
}
