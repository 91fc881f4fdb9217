package arena

import "errors"

var (
	// ErrInvalidTransition is returned when an event is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrStaleReveal is returned for a reveal that belongs to an earlier round.
	ErrStaleReveal = errors.New("stale reveal")
	// ErrUnknownSlot is returned for a slot other than SlotOne or SlotTwo.
	ErrUnknownSlot = errors.New("unknown slot")
	// ErrClosed is returned by a closed Arena.
	ErrClosed = errors.New("arena closed")
)
