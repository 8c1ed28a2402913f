package service

import (
	"github.com/AlineIradukunda/dusangire-backend/internal/lifecycle"
	"github.com/AlineIradukunda/dusangire-backend/internal/model"
)

// resolveTransition validates one lifecycle event against a record's current
// state and decides what the stored delete_reason becomes. All three
// soft-deletable entities funnel through here so the state machine lives in
// exactly one place.
//
// Reason handling per event:
//   - request_delete: the caller's reason is mandatory and gets stored
//   - recover:        the reason is cleared
//   - confirm_delete: the reason recorded at request time is preserved
func resolveTransition(sd model.SoftDelete, ev lifecycle.Event, reason string) (to lifecycle.Status, storedReason *string, err error) {
	to, err = lifecycle.Next(sd.DeleteStatus, ev)
	if err != nil {
		return "", nil, err
	}

	switch ev {
	case lifecycle.EventRequestDelete:
		if reason == "" {
			return "", nil, lifecycle.ErrReasonRequired
		}
		storedReason = &reason
	case lifecycle.EventConfirmDelete:
		storedReason = sd.DeleteReason
	case lifecycle.EventRecover:
		storedReason = nil
	}

	return to, storedReason, nil
}
