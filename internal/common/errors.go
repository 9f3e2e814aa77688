// Package common defines shared constants and sentinel errors used across
// the client and server layers. Callers match these with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Transport errors. ErrUnavailable means the server could not be
	// reached at all (no network, timeout); ErrRejected means it answered
	// with a non-success status. The sync round treats both as failure.
	ErrUnavailable = errors.New("server unavailable")
	ErrRejected    = errors.New("server rejected request")

	// Sync validation: a batch record is missing a required field. The
	// whole round fails; nothing is applied.
	ErrMalformedRecord = errors.New("malformed record")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)
