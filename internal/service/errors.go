package service

import "fmt"

// ValidationError reports a malformed entry in an assignment batch. The whole
// batch is rejected; Index identifies the offending entry in submission
// order.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid assignment at index %d: %s", e.Index, e.Reason)
}
