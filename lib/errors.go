package lib

import (
	"errors"

	"poolcare_server/database"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
	// ErrInUse means a foreign key still points at the row.
	ErrInUse = errors.New("still referenced")
)

// Catalog errors
var (
	ErrHasChildren   = errors.New("category has subcategories")
	ErrCategoryCycle = errors.New("category cannot be placed under itself or one of its subcategories")
	ErrInvalidState  = errors.New("invalid state transition")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MapPgError translates driver errors into the sentinels above. Errors it does
// not recognise are returned unchanged.
func MapPgError(err error) error {
	switch database.SQLState(err) {
	case "23505": // unique_violation
		return ErrConflict
	case "23503": // foreign_key_violation
		return ErrInUse
	case "P0002": // no_data_found
		return ErrNotFound
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrInUse)
}
