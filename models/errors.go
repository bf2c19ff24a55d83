package models

import "fmt"

// ValidationError rejects bad input (empty name, oversized wager, malformed
// slot). No state is mutated when one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStateError rejects a round operation attempted from an incompatible
// state, e.g. starting a round that is already running. The calling surface
// normally guards against these, but the core still refuses them.
type InvalidStateError struct {
	Op    string
	State string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s while round is %s", e.Op, e.State)
}
