// Package domain holds the errors shared by every entity package. Entity
// specific sentinels live next to their entity (koki, lottery, game, user,
// fund, sysconfig) and are checked with errors.Is.
package domain

import "errors"

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned when a conditional update matched no row
	// because another transaction changed the state first.
	ErrConflict = errors.New("conflict")
)
