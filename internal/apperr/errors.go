package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidDaySlot = errors.New("day slot must be between 1 and 7")
	ErrValidation     = errors.New("validation failed")
)
