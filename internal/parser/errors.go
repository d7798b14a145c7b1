package parser

import "fmt"

// ParseError reports the raw line whose field failed to convert.
type ParseError struct {
	Line  string
	Field string
	Err   error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s in line %q: %v", e.Field, e.Line, e.Err)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *ParseError) Unwrap() error {
	return e.Err
}
