package store

import "errors"

var (
	ErrUserNotFound  = errors.New("store: user not found")
	ErrEmailTaken    = errors.New("store: email already registered")
	ErrGoogleIDTaken = errors.New("store: google account already linked")
	ErrUnavailable   = errors.New("store: database unavailable")

	errFailedToConnect = errors.New("store: failed to connect to mongodb")
)
