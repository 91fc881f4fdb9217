package arenabench

import "errors"

var (
	// ErrInvalidConfig is returned when a Config field is out of range.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnhealthy is returned when /healthz does not answer 200.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrRoster is returned when the roster is unusable for battles.
	ErrRoster = errors.New("roster unusable")
	// ErrMismatch is returned when an outcome disagrees with the roster.
	ErrMismatch = errors.New("outcome mismatch")
	// ErrFailures is returned when any battle failed or did not verify.
	ErrFailures = errors.New("bench failures")
)
