package domain

import "errors"

// Meal errors
var (
	ErrUnknownUser = errors.New("unknown user")
)
