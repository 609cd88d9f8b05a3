package service

import "errors"

var (
	// ErrExhaustedAttempts is returned when no unused short code was found
	// within the attempt budget.
	ErrExhaustedAttempts = errors.New("short code attempts exhausted")

	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotDynamic       = errors.New("qr code is not dynamic")
	ErrTermsNotAccepted = errors.New("terms not accepted")
)
