package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown emails and wrong passwords so
	// the login endpoint cannot be used to probe which addresses exist.
	ErrInvalidCredentials = errors.New("auth: incorrect email or password")

	ErrEmailExists       = errors.New("auth: email already registered")
	ErrGoogleOnlyAccount = errors.New("auth: account has no password, use google sign-in")
	ErrGoogleAuthFailed  = errors.New("auth: google authentication failed")
	ErrGoogleConflict    = errors.New("auth: google account linked to another user")
	ErrPasswordMismatch  = errors.New("auth: current password is incorrect")
	ErrAdminAccount      = errors.New("auth: admin accounts cannot be deleted here")
)
