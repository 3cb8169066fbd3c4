// Package session moves the session credential between client and server and
// turns it back into a user.
//
// The credential travels in an httpOnly cookie. The middleware verifies it,
// then re-resolves the user from storage on every request: identity claims in
// the token are display hints, authorization always runs against the stored
// record.
package session

import (
	"net/http"
	"time"
)

// DefaultCookieName is the session cookie name the storefront client expects.
const DefaultCookieName = "jwt"

// Manager writes, clears and reads the session cookie. Set and Clear use the
// same attributes so a clear actually removes what was set.
type Manager struct {
	name   string
	ttl    time.Duration
	secure bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookieName overrides the cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// WithSecure marks the cookie Secure and relaxes SameSite to None, which the
// cross-site storefront needs in production. Leave off for plain-HTTP
// development.
func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

// NewManager creates a cookie manager issuing cookies that live as long as
// the session credential itself.
func NewManager(ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{name: DefaultCookieName, ttl: ttl}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Set writes the session cookie.
func (m *Manager) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, m.cookie(token, int(m.ttl.Seconds())))
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1))
}

// Read returns the session credential from the request, or ErrNoToken when
// the cookie is absent.
func (m *Manager) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.name)
	if err != nil || cookie.Value == "" {
		return "", ErrNoToken
	}
	return cookie.Value, nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if m.secure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: sameSite,
	}
}
