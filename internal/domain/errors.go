package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrForbidden           = errors.New("insufficient permissions")
	ErrMissingSelection    = errors.New("barber, service, date and time are required")
	ErrCancellationBlocked = errors.New("appointment can no longer be cancelled")
	ErrInvalidTransition   = errors.New("appointment status transition not allowed")
	ErrInvalidStatus       = errors.New("unknown appointment status")
)
