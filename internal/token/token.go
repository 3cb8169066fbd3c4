// Package token implements the session credential codec.
//
// A session credential is a compact, self-contained HS256 JWT carrying the
// identity claims needed to render the client UI plus issuance and expiry
// timestamps. Possession of a validly signed, unexpired token is the sole
// session proof; nothing is persisted server-side.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"

	// DefaultTTL is the session lifetime: one hour from issuance, with no
	// refresh flow.
	DefaultTTL = time.Hour
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// SessionClaims is the payload of a session credential.
type SessionClaims struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Picture   string `json:"picture,omitempty"`
	Role      string `json:"role,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Valid checks the temporal claims against the current time.
func (c SessionClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return ErrExpiredToken
	}
	return nil
}

// Config holds the codec configuration.
type Config struct {
	// Secret signs session credentials. It must come from the environment
	// and never appear in source or logs.
	Secret string        `env:"JWT_SECRET,required"`
	TTL    time.Duration `env:"SESSION_TTL" envDefault:"1h"`
}

// Codec signs and verifies session credentials with a symmetric secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// New creates a Codec from the given configuration.
func New(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Codec{secret: []byte(cfg.Secret), ttl: ttl}, nil
}

// TTL returns the configured session lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a session credential for the given identity claims, stamping
// issuance and expiry. The identity fields of claims are used as-is.
func (c *Codec) Issue(claims SessionClaims) (string, error) {
	now := time.Now()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(c.ttl).Unix()
	return c.sign(claims)
}

// Verify parses a session credential, checking signature, structure and
// expiry. It returns ErrInvalidToken for structural or signature failures
// and ErrExpiredToken once the credential is past its expiry.
func (c *Codec) Verify(tokenString string) (SessionClaims, error) {
	var claims SessionClaims

	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return claims, ErrInvalidToken
	}

	payload := parts[0] + "." + parts[1]
	expected := c.signature(payload)
	// Constant-time comparison prevents timing leaks on the signature check.
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) != 1 {
		return claims, ErrInvalidToken
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return claims, ErrInvalidToken
	}
	var hdr header
	if err := json.Unmarshal(headerJSON, &hdr); err != nil {
		return claims, ErrInvalidToken
	}
	// Reject unexpected algorithms to prevent algorithm confusion.
	if hdr.Algorithm != headerAlgorithm {
		return claims, ErrInvalidToken
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return claims, ErrInvalidToken
	}
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return claims, ErrInvalidToken
	}

	if err := claims.Valid(); err != nil {
		return SessionClaims{}, err
	}

	return claims, nil
}

func (c *Codec) sign(claims SessionClaims) (string, error) {
	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", fmt.Errorf("marshal header: %w", err)
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return payload + "." + c.signature(payload), nil
}

func (c *Codec) signature(payload string) string {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
