package models

import (
	"errors"
	"fmt"
)

// Domain errors. Each one is an expected outcome the HTTP layer maps to a
// specific client-facing status; anything else is an internal fault.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("forbidden")

	ErrDuplicateEmail    = errors.New("email is already registered")
	ErrDuplicateUsername = errors.New("username is already taken")
	ErrDuplicateBorrow   = errors.New("user has already borrowed this book")
	ErrDuplicateIsbn     = errors.New("book with this ISBN already exists")

	ErrBookNotFound   = errors.New("book not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrBorrowNotFound = errors.New("borrow record not found")

	ErrBookUnavailable      = errors.New("book is not available")
	ErrNotCurrentlyBorrowed = errors.New("book is not currently borrowed")
	ErrBookHasActiveBorrows = errors.New("cannot delete book with active borrows")
)

// ValidationError reports input rejected before an entity is constructed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
