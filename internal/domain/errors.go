package domain

import "errors"

// Sentinel errors shared by services and repositories.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotConfigured = errors.New("not configured")
)

// Invite state machine rejections.
var (
	ErrInviteAlreadyAccepted = errors.New("invite already accepted")
	ErrInviteNotAccepted     = errors.New("invite not accepted yet")
	ErrInviteAlreadyScanned  = errors.New("already checked in")
	// ErrInviteStale is returned by a conditional invite update when the stored
	// status no longer matches the expected one.
	ErrInviteStale = errors.New("invite status changed concurrently")
)
