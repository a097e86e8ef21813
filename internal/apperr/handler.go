package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/storefront/internal/logging"
)

type envelope struct {
	Error *Error `json:"error"`
}

// ErrorHandler is the single boundary converting any error escaping a
// handler into the `{"error":{type,message,details?,timestamp}}` envelope.
// Unrecognized errors are flattened to INTERNAL_ERROR without leaking
// internals; the original error goes to the log only.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ae *Error
	if !errors.As(err, &ae) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			ae = fromHTTPError(he)
		} else {
			l := logging.FromContext(c.Request().Context())
			l.Error("unhandled_error", "error", err)
			ae = Internal("")
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(ae.Status)
		return
	}
	_ = c.JSON(ae.Status, envelope{Error: ae})
}

// fromHTTPError covers errors raised by echo itself (route not found,
// method not allowed, oversized bodies).
func fromHTTPError(he *echo.HTTPError) *Error {
	message := http.StatusText(he.Code)
	if s, ok := he.Message.(string); ok && s != "" {
		message = s
	}

	switch he.Code {
	case http.StatusBadRequest:
		return Validation(message, nil)
	case http.StatusUnauthorized:
		return Auth(message)
	case http.StatusNotFound:
		return NotFound(message)
	case http.StatusConflict:
		return Conflict(message)
	default:
		e := Internal("")
		if he.Code >= 400 && he.Code < 500 {
			e = newError(TypeValidation, message, he.Code, nil)
		}
		return e
	}
}
