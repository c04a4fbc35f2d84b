package domain

import "errors"

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrSecretNotFound   = errors.New("secret not found")
	ErrNoCredentials    = errors.New("no usable credentials")
	ErrInvalidLaneCount = errors.New("lane count must be at least 1")
	ErrEmptyLane        = errors.New("lane has no credentials")
	ErrSessionClosed    = errors.New("session closed")
)
