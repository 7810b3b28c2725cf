package engine

import "fmt"

// Errors
var (
	ErrOddChangeList    = engineError("change list must have even length")
	ErrBadEventListSize = engineError("event list length must be a multiple of 4")
	ErrEmptyKey         = engineError("empty key")
)

type engineError string

func (e engineError) Error() string {
	return string(e)
}

// BatchError describes an inbound batch rejected at the boundary.
// Nothing from a rejected batch is applied.
type BatchError struct {
	Op   string
	Len  int
	Want int // required length multiple
	Err  error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: %d items, want multiple of %d: %v", e.Op, e.Len, e.Want, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
