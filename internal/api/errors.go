package api

import (
	"errors"
	"net/http"

	"github.com/olachris/backend/internal/auth"
	"github.com/olachris/backend/internal/httpx"
	"github.com/olachris/backend/internal/store"
	"github.com/olachris/backend/internal/validator"
)

// mapError translates domain errors into client-facing HTTP errors. Anything
// unrecognized falls through to httpx.Error's generic 500 so internals never
// reach the client.
func mapError(err error) error {
	if ve, ok := validator.Extract(err); ok {
		return httpx.NewHTTPError(http.StatusBadRequest, "Validation failed.").
			WithDetails(ve.Details())
	}

	var httpErr httpx.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return httpx.NewHTTPError(http.StatusUnauthorized, "Incorrect email or password.")
	case errors.Is(err, auth.ErrGoogleOnlyAccount):
		return httpx.NewHTTPError(http.StatusUnauthorized,
			"This account uses Google Sign-In. Please continue with Google.")
	case errors.Is(err, auth.ErrGoogleAuthFailed):
		return httpx.NewHTTPError(http.StatusUnauthorized, "Google authentication failed.")
	case errors.Is(err, auth.ErrEmailExists), errors.Is(err, store.ErrEmailTaken):
		return httpx.NewHTTPError(http.StatusConflict, "This email is already registered.")
	case errors.Is(err, auth.ErrGoogleConflict):
		return httpx.NewHTTPError(http.StatusConflict,
			"This Google account is already linked to another user.")
	case errors.Is(err, auth.ErrPasswordMismatch):
		return httpx.NewHTTPError(http.StatusBadRequest, "Your current password is wrong.")
	case errors.Is(err, auth.ErrAdminAccount):
		return httpx.NewHTTPError(http.StatusForbidden,
			"Admin accounts cannot be deleted this way.")
	case errors.Is(err, store.ErrUserNotFound):
		return httpx.NewHTTPError(http.StatusNotFound, "User not found.")
	case errors.Is(err, store.ErrUnavailable):
		return httpx.NewHTTPError(http.StatusServiceUnavailable,
			"Service temporarily unavailable. Please try again.")
	default:
		return err
	}
}
