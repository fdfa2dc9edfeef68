package custom_error

import (
	"fmt"
	"strconv"
	"strings"
)

// NotFoundError marks a referenced asset, employee, ledger record or catalog
// status that does not exist.
type NotFoundError struct {
	message string
}

func (e *NotFoundError) Error() string {
	return e.message
}

func NewNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{message: fmt.Sprintf(format, args...)}
}

// PreconditionError marks an entity that exists but is not in a state
// eligible for the requested transition.
type PreconditionError struct {
	message string
}

func (e *PreconditionError) Error() string {
	return e.message
}

func NewPrecondition(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{message: fmt.Sprintf(format, args...)}
}

// SelectionMismatchError marks a bulk request whose id set did not fully
// resolve to eligible ledger records. The whole operation is aborted; no
// partial application is permitted.
type SelectionMismatchError struct {
	Missing []int
}

func (e *SelectionMismatchError) Error() string {
	ids := make([]string, 0, len(e.Missing))
	for _, id := range e.Missing {
		ids = append(ids, strconv.Itoa(id))
	}
	return "some requested assets are not eligible or do not belong to the employee: " + strings.Join(ids, ", ")
}

func NewSelectionMismatch(missing []int) *SelectionMismatchError {
	return &SelectionMismatchError{Missing: missing}
}

// ValidationError marks malformed input: non-numeric id, empty required
// array, missing required field.
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{message: fmt.Sprintf(format, args...)}
}
