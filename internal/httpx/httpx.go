// Package httpx holds the JSON transport helpers shared by the API handlers:
// response writing, the HTTP error type, and request body decoding.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies. Every payload the API accepts is a small
// JSON document.
const maxBodyBytes = 1 << 20

// HTTPError is an error that knows its HTTP status and the client-facing
// message. The message is safe to return verbatim; internal detail belongs in
// logs, not here.
type HTTPError struct {
	Code    int                 `json:"-"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTPError with the given status and message.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

// WithDetails returns a copy carrying per-field failure messages.
func (e HTTPError) WithDetails(details map[string][]string) HTTPError {
	e.Details = details
	return e
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as a JSON error response. Non-HTTPError values are
// masked behind a generic 500 so internals never leak to clients.
func Error(w http.ResponseWriter, err error) {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Something went very wrong!",
		}
	}
	JSON(w, httpErr.Code, httpErr)
}

// DecodeJSON reads the request body into dst, enforcing the size cap and
// rejecting syntactically invalid JSON with a 400.
func DecodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	return nil
}
