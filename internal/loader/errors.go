package loader

import "fmt"

// IOError reports that the record source could not be opened or read.
// It is distinct from cancellation, which is not an error.
type IOError struct {
	Source string
	Op     string
	Err    error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *IOError) Unwrap() error {
	return e.Err
}
