package booking

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// State is the temporal bucket used to filter booking listings.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// States lists every bucket in display order.
var States = []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// UnknownState is returned for a filter outside States.
func UnknownState(raw string) error {
	return apperror.Validationf("Unknown state: %s", raw)
}

// Scope selects whose bookings a listing returns.
type Scope int

const (
	ScopeBooker Scope = iota // bookings the user made
	ScopeOwner               // bookings on items the user owns
)

// matchers evaluates each bucket against an instant. CURRENT is inclusive on both
// ends; PAST and FUTURE are strict, so the three never overlap.
var matchers = map[State]func(b *Booking, now time.Time) bool{
	StateAll: func(*Booking, time.Time) bool { return true },
	StateCurrent: func(b *Booking, now time.Time) bool {
		return !b.Start.After(now) && !b.End.Before(now)
	},
	StatePast:     func(b *Booking, now time.Time) bool { return b.End.Before(now) },
	StateFuture:   func(b *Booking, now time.Time) bool { return b.Start.After(now) },
	StateWaiting:  func(b *Booking, _ time.Time) bool { return b.Status == StatusWaiting },
	StateRejected: func(b *Booking, _ time.Time) bool { return b.Status == StatusRejected },
}

// Matches reports whether b falls into the bucket at instant now.
// An unknown state matches nothing.
func (s State) Matches(b *Booking, now time.Time) bool {
	m, ok := matchers[s]
	return ok && m(b, now)
}

// Valid reports whether s is one of the known buckets.
func (s State) Valid() bool {
	_, ok := matchers[s]
	return ok
}
