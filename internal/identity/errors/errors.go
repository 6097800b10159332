package errors

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	ErrDuplicateEmail = errors.New("email already registered for this tenant")

	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserInactive = errors.New("user account is inactive")
)
