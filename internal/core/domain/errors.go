package domain

import "errors"

// Sentinel errors returned by services and repositories. The HTTP layer
// maps each to a status code and a client-facing message; nothing below
// the boundary layer ever leaks raw store errors to the caller.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrPropertyNotFound   = errors.New("property not found")
	ErrDealNotFound       = errors.New("deal not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidTransition  = errors.New("stage transition is not allowed")
	ErrLastAdmin          = errors.New("at least one admin user must remain")
	ErrNoData             = errors.New("no data to export")
)
