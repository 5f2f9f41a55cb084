package services

import "errors"

var (
	// ErrValidation marks input rejected before touching storage.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateCheckIn is returned when the user already checked in on that date.
	ErrDuplicateCheckIn = errors.New("already checked in today")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrUsernameTaken    = errors.New("username already taken")
	// ErrInvalidCredentials hides which of email or password was wrong.
	ErrInvalidCredentials = errors.New("incorrect email or password")
)
