package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSessionID is returned when a session ID is empty or malformed.
var ErrInvalidSessionID = errors.New("invalid session id")
