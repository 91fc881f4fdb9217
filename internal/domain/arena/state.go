// Package arena models a two-slot battle session as a state machine.
//
// Transition is pure. Arena wraps a Session with a resolver and a scheduler
// that delivers the reveal after a delay.
package arena

import (
	"fmt"

	"github.com/okian/herofan/internal/domain/model"
)

// State is the phase of a session.
type State int

// Session states.
const (
	Idle State = iota
	BothSelected
	Resolving
	Revealed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case BothSelected:
		return "both_selected"
	case Resolving:
		return "resolving"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name produced by MarshalText.
func (s *State) UnmarshalText(b []byte) error {
	for _, st := range []State{Idle, BothSelected, Resolving, Revealed} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// Slot identifies a selection slot. SlotOne holds the challenger.
type Slot int

// Selection slots.
const (
	SlotOne Slot = 1
	SlotTwo Slot = 2
)

func (s Slot) valid() bool { return s == SlotOne || s == SlotTwo }

func (s Slot) other() Slot {
	if s == SlotOne {
		return SlotTwo
	}
	return SlotOne
}

// Session is a snapshot of one arena. Profiles and outcomes are shared
// between snapshots and must not be mutated.
type Session struct {
	State   State                    `json:"state"`
	Round   int                      `json:"round"`
	One     *model.CompetitorProfile `json:"slot_one,omitempty"`
	Two     *model.CompetitorProfile `json:"slot_two,omitempty"`
	Outcome *model.BattleOutcome     `json:"outcome,omitempty"`
}

// Get returns the profile in slot, or nil.
func (s Session) Get(slot Slot) *model.CompetitorProfile {
	switch slot {
	case SlotOne:
		return s.One
	case SlotTwo:
		return s.Two
	default:
		return nil
	}
}

func (s *Session) set(slot Slot, p *model.CompetitorProfile) {
	if slot == SlotOne {
		s.One = p
	} else {
		s.Two = p
	}
}

// Full reports whether both slots hold a profile.
func (s Session) Full() bool { return s.One != nil && s.Two != nil }

// Event is an input to Transition.
type Event interface {
	event()
}

// Select places Profile in Slot.
type Select struct {
	Slot    Slot
	Profile model.CompetitorProfile
}

// Pick places Profile in the slot that already holds it, else the first
// empty slot, else SlotOne.
type Pick struct {
	Profile model.CompetitorProfile
}

// Start begins a new round.
type Start struct{}

// Reveal publishes the outcome of Round.
type Reveal struct {
	Round   int
	Outcome model.BattleOutcome
}

// Reset clears both slots.
type Reset struct{}

// Clear empties Slot and leaves the other slot as it is.
type Clear struct {
	Slot Slot
}

func (Select) event() {}
func (Pick) event()   {}
func (Start) event()  {}
func (Reveal) event() {}
func (Reset) event()  {}
func (Clear) event()  {}

// Transition applies e to s and returns the next session. On error s is
// returned unchanged.
func Transition(s Session, e Event) (Session, error) {
	switch ev := e.(type) {
	case Select:
		return selectSlot(s, ev.Slot, ev.Profile)
	case Pick:
		return selectSlot(s, PickSlot(s, ev.Profile.ID), ev.Profile)
	case Start:
		if s.State != BothSelected && s.State != Revealed {
			return s, fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.State)
		}
		s.Round++
		s.Outcome = nil
		s.State = Resolving
		return s, nil
	case Reveal:
		if ev.Round > s.Round {
			return s, fmt.Errorf("%w: reveal for future round %d", ErrInvalidTransition, ev.Round)
		}
		// A round is live only while Resolving; selections and resets abandon it.
		if s.State != Resolving || ev.Round != s.Round {
			return s, fmt.Errorf("%w: round %d, session at %d (%s)", ErrStaleReveal, ev.Round, s.Round, s.State)
		}
		out := ev.Outcome
		s.Outcome = &out
		s.State = Revealed
		return s, nil
	case Reset:
		return Session{State: Idle, Round: s.Round}, nil
	case Clear:
		if !ev.Slot.valid() {
			return s, fmt.Errorf("%w: %d", ErrUnknownSlot, int(ev.Slot))
		}
		s.set(ev.Slot, nil)
		s.Outcome = nil
		s.State = Idle
		return s, nil
	default:
		return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, e)
	}
}

// PickSlot returns the slot Pick would use for hero id.
func PickSlot(s Session, id int) Slot {
	switch {
	case s.One != nil && s.One.ID == id:
		return SlotOne
	case s.Two != nil && s.Two.ID == id:
		return SlotTwo
	case s.One == nil:
		return SlotOne
	case s.Two == nil:
		return SlotTwo
	default:
		return SlotOne
	}
}

func selectSlot(s Session, slot Slot, p model.CompetitorProfile) (Session, error) {
	if !slot.valid() {
		return s, fmt.Errorf("%w: %d", ErrUnknownSlot, int(slot))
	}
	if o := s.Get(slot.other()); o != nil && o.ID == p.ID {
		s.set(slot.other(), nil)
	}
	s.set(slot, &p)
	s.Outcome = nil
	if s.Full() {
		s.State = BothSelected
	} else {
		s.State = Idle
	}
	return s, nil
}
