package custom_error

import (
	"errors"
	"net/http"
)

// HTTPStatus maps a domain error to the response status handlers should use.
// Unknown errors are treated as internal.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		precond    *PreconditionError
		mismatch   *SelectionMismatchError
		unique     *UniqueViolationError
		foreignKey *ForeignKeyViolationError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &precond), errors.As(err, &mismatch):
		return http.StatusConflict
	case errors.As(err, &unique), errors.As(err, &foreignKey):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the error text safe to expose for domain errors and
// a generic message for everything else.
func PublicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
