package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// errorResponse is the canonical failure envelope: {ok:false, message}.
type errorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the uniform JSON envelope {ok:false, message}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{OK: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found."
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "Client not found."
	case errors.Is(err, domain.ErrPropertyNotFound):
		return http.StatusNotFound, "Property not found."
	case errors.Is(err, domain.ErrDealNotFound):
		return http.StatusNotFound, "Deal not found."
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusBadRequest, "Email already exists."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid email or password."
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, "Stage transition is not allowed."
	case errors.Is(err, domain.ErrLastAdmin):
		return http.StatusBadRequest, "You must keep at least one admin user."
	case errors.Is(err, domain.ErrNoData):
		return http.StatusBadRequest, "No data to export."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Server error."
}
