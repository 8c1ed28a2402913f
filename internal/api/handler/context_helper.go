package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AlineIradukunda/dusangire-backend/internal/lifecycle"
	pkgerrors "github.com/AlineIradukunda/dusangire-backend/pkg/errors"
	"github.com/AlineIradukunda/dusangire-backend/pkg/response"
)

// MustGetUserID extracts user_id from the context, answering 401 when the
// auth middleware did not inject it. Callers should return when ok is false.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// handleLifecycleError maps the shared state-machine errors onto responses.
// Returns false when err was not a lifecycle error and the caller's own
// mapping should run.
//
// A conditional-update conflict means the record's status moved between our
// read and write; to the caller that is the same wrong-state situation as a
// plainly invalid transition.
func handleLifecycleError(c *gin.Context, err error, codeBase int) bool {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		response.BadRequest(c, codeBase+1, "the record's current status does not allow this transition")
	case errors.Is(err, lifecycle.ErrReasonRequired):
		response.BadRequest(c, codeBase+2, "a deletion reason is required")
	case errors.Is(err, pkgerrors.ErrStatusConflict):
		response.BadRequest(c, codeBase+3, "the record's status changed concurrently, refresh and retry")
	default:
		return false
	}
	return true
}
