package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrForeignKeyViolation is returned when a row references a missing parent
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrConflict is returned when a row with the same key already exists
	ErrConflict = errors.New("conflict")
)
