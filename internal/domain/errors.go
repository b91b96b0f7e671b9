package domain

import "errors"

var (
	// ErrUnauthenticated means no acting user identity was supplied.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized means the acting user does not own the target record.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UnauthenticatedError names the operation that was refused.
type UnauthenticatedError struct {
	Op string
}

func (e *UnauthenticatedError) Error() string {
	return "cannot " + e.Op + " without a signed-in user"
}

func (e *UnauthenticatedError) Unwrap() error {
	return ErrUnauthenticated
}

// RequireUser rejects an empty acting user id.
func RequireUser(userID, op string) error {
	if userID == "" {
		return &UnauthenticatedError{Op: op}
	}
	return nil
}
