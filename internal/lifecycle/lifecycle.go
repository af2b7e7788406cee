// Package lifecycle defines the application status state machine. Statuses
// are stored lowercase in the database and on the wire. An application is
// created directly in StatusUnderReview by a successful submission; admins
// move it to one of the two terminal statuses. Terminal statuses accept no
// further transitions.
package lifecycle

import "errors"

// Status is an application lifecycle state.
type Status string

const (
	// StatusPending is reserved for administratively seeded records; the
	// normal submission path never produces it.
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

// Event is an admin action applied to an application.
type Event string

const (
	EventApprove Event = "approve"
	EventReject  Event = "reject"
)

// ErrInvalidTransition is returned when an event is not allowed from the
// application's current status. The stored record must be left unchanged.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnknownStatus is returned for status values outside the enumeration.
var ErrUnknownStatus = errors.New("unknown application status")

// Transition is a single allowed edge in the state machine.
type Transition struct {
	From  Status
	Event Event
	To    Status
}

var transitions = []Transition{
	{From: StatusPending, Event: EventApprove, To: StatusApproved},
	{From: StatusPending, Event: EventReject, To: StatusRejected},
	{From: StatusUnderReview, Event: EventApprove, To: StatusApproved},
	{From: StatusUnderReview, Event: EventReject, To: StatusRejected},
}

// Valid reports whether s is a member of the status enumeration.
func Valid(s Status) bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s accepts no further transitions.
func Terminal(s Status) bool {
	return s == StatusApproved || s == StatusRejected
}

// Apply returns the status reached by applying ev to from. It returns
// ErrUnknownStatus for values outside the enumeration and
// ErrInvalidTransition when no edge matches, which includes every event
// applied to a terminal status.
func Apply(from Status, ev Event) (Status, error) {
	if !Valid(from) {
		return "", ErrUnknownStatus
	}
	for _, tr := range transitions {
		if tr.From == from && tr.Event == ev {
			return tr.To, nil
		}
	}
	return "", ErrInvalidTransition
}
