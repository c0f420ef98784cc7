package errors

import "errors"

var (
	ErrInvalidActor  = errors.New("invalid actor id")
	ErrUnknownAction = errors.New("unknown audit action")
	ErrInvalidQuery  = errors.New("invalid audit query")
)
