package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	invitationdomain "github.com/reclaimhq/reclaim/internal/invitation/domain"
	signupdomain "github.com/reclaimhq/reclaim/internal/signup/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, invitationdomain.ErrEntityRequired):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{{
				Field:   "entityId",
				Code:    "entity_required",
				Message: "an entity is required for this role",
			}},
		}
	case errors.Is(err, invitationdomain.ErrInviterInvalid),
		errors.Is(err, invitationdomain.ErrAccountInvalid),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
		}
	case errors.Is(err, signupdomain.ErrUserNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: invitationdomain.MsgUserNotFound,
		}
	case errors.Is(err, signupdomain.ErrEmailMismatch):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "Invitation email does not match",
		}
	case errors.Is(err, signupdomain.ErrAlreadyUsed):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: invitationdomain.MsgAlreadyUsed,
		}
	case errors.Is(err, signupdomain.ErrNoLongerValid):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: invitationdomain.MsgNoLongerValid,
		}
	case errors.Is(err, signupdomain.ErrAlreadyActivated):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: invitationdomain.MsgAlreadyActivated,
		}
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func classifyErrorForLog(err error) string {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal"
	default:
		return payload.Type
	}
}
