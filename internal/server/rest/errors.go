package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ruchidavda1/todoapp/internal/common"
)

// Client-visible error messages.
const (
	msgValidation         = "Validation error"
	msgDuplicateEmail     = "User already exists with this email"
	msgInvalidCredentials = "Invalid credentials"
	msgUnauthenticated    = "Authentication required"
	msgTodoNotFound       = "Todo not found"
	msgServerError        = "Server error"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// errorStatus translates an error into its HTTP status and body. Anything
// not recognised is an opaque 500.
func errorStatus(err error) (int, errorResponse) {
	var ve *common.ValidationError
	var he *echo.HTTPError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorResponse{Error: msgValidation, Details: ve.Details}
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, errorResponse{Error: msgValidation}
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusBadRequest, errorResponse{Error: msgDuplicateEmail}
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: msgInvalidCredentials}
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Error: msgUnauthenticated}
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: msgTodoNotFound}
	case errors.As(err, &he):
		if he.Code >= http.StatusInternalServerError {
			return he.Code, errorResponse{Error: msgServerError}
		}
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, errorResponse{Error: msg}
	default:
		return http.StatusInternalServerError, errorResponse{Error: msgServerError}
	}
}

// handleError is the echo HTTPErrorHandler. Server-side failures are logged
// with their cause; the client only sees the generic message.
func (s *RESTServer) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method, "route", c.Path(), "error", err.Error())
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		s.logger.Error(c.Request().Context(), "error writing error response", "error", werr)
	}
}
