package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/services"
	"github.com/yungbote/classroom-backend/internal/store"
	"github.com/yungbote/classroom-backend/internal/tracking"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps a failure from the service or store layer to a
// status and machine code; anything unrecognised is a 500 with fallbackCode.
func RespondServiceError(c *gin.Context, fallbackCode string, err error) {
	ae := Classify(err, fallbackCode)
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func Classify(err error, fallbackCode string) *apierr.Error {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, store.ErrUnknownEntity):
		return apierr.NotFound("not_found", err)
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, store.ErrInvalidCommand):
		return apierr.BadRequest("invalid_request", err)
	case errors.Is(err, services.ErrUnauthorized):
		return apierr.New(http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, services.ErrForbidden):
		return apierr.Forbidden("forbidden", err)
	case errors.Is(err, services.ErrAttemptCompleted):
		return apierr.Conflict("attempt_completed", err)
	case errors.Is(err, store.ErrNotAuthoritative):
		return apierr.Conflict("not_authoritative", err)
	case errors.Is(err, store.ErrCurrentUserOwned):
		return apierr.Conflict("current_user_owned", err)
	case errors.Is(err, services.ErrConflict):
		return apierr.Conflict("conflict", err)
	case errors.Is(err, tracking.ErrStopped):
		return apierr.New(http.StatusServiceUnavailable, "tracking_stopped", err)
	}
	return apierr.As(err, fallbackCode)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
