package token

import "errors"

var (
	ErrInvalidToken  = errors.New("token: invalid token")
	ErrExpiredToken  = errors.New("token: token is expired")
	ErrMissingSecret = errors.New("token: missing signing secret")
)
