package errors

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidUserInput   = errors.New("invalid user input")
	ErrInvalidRole        = errors.New("invalid role")
)
