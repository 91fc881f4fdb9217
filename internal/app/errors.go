package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrSameHero   = errors.New("a hero cannot battle itself")
)
