// Package lifecycle implements the staged soft-delete state machine shared by
// schools, transfers and distributions. Records move active → pending →
// deleted, with recovery from pending back to active; deleted is terminal.
package lifecycle

import "errors"

// Status is the delete_status value stored on every soft-deletable record.
type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
	StatusDeleted Status = "deleted"
)

// Event is a requested transition.
type Event string

const (
	// EventRequestDelete marks a record pending deletion. Requires a reason.
	EventRequestDelete Event = "request_delete"
	// EventRecover returns a pending record to active and clears the reason.
	EventRecover Event = "recover"
	// EventConfirmDelete finalizes a pending deletion.
	EventConfirmDelete Event = "confirm_delete"
)

var (
	ErrInvalidTransition = errors.New("invalid delete-status transition")
	ErrReasonRequired    = errors.New("a deletion reason is required")
	ErrUnknownStatus     = errors.New("unknown delete status")
)

// transitions is the single source of truth: event → (from, to).
var transitions = map[Event]struct{ from, to Status }{
	EventRequestDelete: {StatusActive, StatusPending},
	EventRecover:       {StatusPending, StatusActive},
	EventConfirmDelete: {StatusPending, StatusDeleted},
}

// Valid reports whether s is one of the three known statuses.
func Valid(s Status) bool {
	switch s {
	case StatusActive, StatusPending, StatusDeleted:
		return true
	}
	return false
}

// Next validates an event against the current status and returns the
// resulting status. There is no transition out of deleted.
func Next(current Status, ev Event) (Status, error) {
	if !Valid(current) {
		return "", ErrUnknownStatus
	}
	t, ok := transitions[ev]
	if !ok || t.from != current {
		return "", ErrInvalidTransition
	}
	return t.to, nil
}

// Visible reports whether a record participates in default listings.
// Deleted records only appear in the superuser-gated deleted listings.
func Visible(s Status) bool {
	return s == StatusActive || s == StatusPending
}
