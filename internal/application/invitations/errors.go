package invitations

import "errors"

var (
	ErrInvalidInput    = errors.New("Display name, invitation code and at least one party member are required")
	ErrInvalidCode     = errors.New("Invitation code must be at most 128 characters and contain no control characters")
	ErrDuplicateMember = errors.New("Party member names must be unique")
	ErrInvalidID       = errors.New("Invalid invitation id")
	ErrCodeExists      = errors.New("Invitation code already exists")
	ErrNotFound        = errors.New("Invitation not found")
	ErrConflict        = errors.New("Invitation was changed by someone else, please try again")
)
