package lifecycle

import (
	"errors"
	"testing"
)

func TestNext_AllowedTransitions(t *testing.T) {
	cases := []struct {
		current Status
		event   Event
		want    Status
	}{
		{StatusActive, EventRequestDelete, StatusPending},
		{StatusPending, EventRecover, StatusActive},
		{StatusPending, EventConfirmDelete, StatusDeleted},
	}

	for _, tc := range cases {
		got, err := Next(tc.current, tc.event)
		if err != nil {
			t.Errorf("Next(%s, %s): unexpected error %v", tc.current, tc.event, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Next(%s, %s) = %s, want %s", tc.current, tc.event, got, tc.want)
		}
	}
}

func TestNext_RejectedTransitions(t *testing.T) {
	cases := []struct {
		current Status
		event   Event
	}{
		{StatusActive, EventRecover},
		{StatusActive, EventConfirmDelete},
		{StatusPending, EventRequestDelete},
		// deleted is terminal
		{StatusDeleted, EventRequestDelete},
		{StatusDeleted, EventRecover},
		{StatusDeleted, EventConfirmDelete},
	}

	for _, tc := range cases {
		if _, err := Next(tc.current, tc.event); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Next(%s, %s): expected ErrInvalidTransition, got %v", tc.current, tc.event, err)
		}
	}
}

func TestNext_UnknownStatus(t *testing.T) {
	if _, err := Next(Status("archived"), EventRecover); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestVisible(t *testing.T) {
	if !Visible(StatusActive) || !Visible(StatusPending) {
		t.Error("active and pending records must be visible in default listings")
	}
	if Visible(StatusDeleted) {
		t.Error("deleted records must not be visible in default listings")
	}
}
