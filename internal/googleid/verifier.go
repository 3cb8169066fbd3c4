// Package googleid verifies Google Sign-In ID tokens.
//
// An ID token is an RS256-signed JWT issued by Google. Verification checks
// the signature against Google's published public keys, the audience against
// the application's OAuth client ID, the issuer, and the expiry, then
// extracts the stable subject id and the profile fields used to provision or
// link an account. Callers must treat any failure as a single opaque
// authentication failure; the details are for server-side logs only.
package googleid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/olachris/backend/internal/logger"
)

const (
	issuerHTTPS = "https://accounts.google.com"
	issuerBare  = "accounts.google.com"
)

var (
	ErrInvalidAssertion = errors.New("googleid: invalid id token")
	ErrMissingClientID  = errors.New("googleid: missing client id")
)

// Config holds the verifier configuration.
type Config struct {
	// ClientID is the OAuth client id the ID token must be issued for.
	ClientID string `env:"GOOGLE_CLIENT_ID,required"`
	// CertsURL is Google's JWKS endpoint. Overridable for tests.
	CertsURL string `env:"GOOGLE_CERTS_URL" envDefault:"https://www.googleapis.com/oauth2/v3/certs"`
	// KeyRefreshInterval bounds how long fetched signing keys are reused.
	KeyRefreshInterval time.Duration `env:"GOOGLE_KEY_REFRESH_INTERVAL" envDefault:"1h"`
}

// Identity is the verified subset of an ID token's claims.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Verifier validates Google ID tokens.
type Verifier struct {
	audience string
	keys     *keyCache
	logger   *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(v *Verifier) {
		if log != nil {
			v.logger = log
		}
	}
}

// WithHTTPClient sets the client used to fetch Google's signing keys.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Verifier) {
		if client != nil {
			v.keys.client = client
		}
	}
}

// New creates a Verifier from the given configuration.
func New(cfg Config, opts ...Option) (*Verifier, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}

	refresh := cfg.KeyRefreshInterval
	if refresh <= 0 {
		refresh = time.Hour
	}

	v := &Verifier{
		audience: cfg.ClientID,
		keys:     newKeyCache(cfg.CertsURL, refresh),
		logger:   logger.NewDiscard(),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Verify validates the given ID token and returns the asserted identity.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	claims := &idTokenClaims{}

	_, err := jwt.ParseWithClaims(idToken, claims,
		func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, fmt.Errorf("%w: missing key id", ErrInvalidAssertion)
			}
			return v.keys.get(ctx, kid)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("id token verification failed",
			logger.Error(err),
			logger.Component("googleid"),
		)
		return nil, errors.Join(ErrInvalidAssertion, err)
	}

	// Google issues tokens under two issuer spellings.
	if iss := claims.Issuer; iss != issuerHTTPS && iss != issuerBare {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidAssertion, claims.Issuer)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing subject or email", ErrInvalidAssertion)
	}

	return &Identity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}
