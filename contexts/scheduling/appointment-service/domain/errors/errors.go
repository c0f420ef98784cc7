package errors

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSchedulingConflict      = errors.New("provider already booked at that instant")
	ErrInvalidTransition       = errors.New("status transition not allowed")
	ErrInvalidAppointmentInput = errors.New("invalid appointment input")
)
