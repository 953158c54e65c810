package http

import (
	"errors"
	"log/slog"
	"net/http"

	"auctiondelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// StatusFor maps the error classes of the core to HTTP status codes. Anything
// unclassified is an internal error.
func StatusFor(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrStateConflict),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrResourceUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrExternalFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as an Error body. Internal errors are logged and their text is
// not sent to the client.
func writeError(ctx echo.Context, err error) error {
	code := StatusFor(err)
	message := err.Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}

	if code >= http.StatusInternalServerError {
		slog.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"status", code,
			"error", err)
		if code == http.StatusInternalServerError {
			message = http.StatusText(code)
		}
	}

	return ctx.JSON(code, Error{Code: code, Message: message})
}

// ErrorHandler renders errors that escape the handlers (routing, binding, middleware)
// with the same body as handler errors.
func ErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}
	_ = writeError(ctx, err)
}
