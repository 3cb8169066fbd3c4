package googleid_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olachris/backend/internal/googleid"
)

const testClientID = "test-client-id.apps.googleusercontent.com"

type signer struct {
	key *rsa.PrivateKey
	kid string
}

func newSigner(t *testing.T, kid string) *signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &signer{key: key, kid: kid}
}

func (s *signer) jwk() map[string]string {
	return map[string]string{
		"kty": "RSA",
		"kid": s.kid,
		"use": "sig",
		"alg": "RS256",
		"n":   base64.RawURLEncoding.EncodeToString(s.key.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(s.key.E)).Bytes()),
	}
}

func (s *signer) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = s.kid
	signed, err := tok.SignedString(s.key)
	require.NoError(t, err)
	return signed
}

// serveJWKS serves the current signer set; swap replaces it to simulate key
// rotation on Google's side.
func serveJWKS(t *testing.T, signers ...*signer) (srv *httptest.Server, swap func(...*signer)) {
	t.Helper()

	var mu sync.Mutex
	current := signers

	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys := make([]map[string]string, 0, len(current))
		for _, s := range current {
			keys = append(keys, s.jwk())
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": keys})
	}))
	t.Cleanup(srv.Close)

	return srv, func(next ...*signer) {
		mu.Lock()
		current = next
		mu.Unlock()
	}
}

func newVerifier(t *testing.T, certsURL string) *googleid.Verifier {
	t.Helper()
	v, err := googleid.New(googleid.Config{
		ClientID:           testClientID,
		CertsURL:           certsURL,
		KeyRefreshInterval: time.Hour,
	})
	require.NoError(t, err)
	return v
}

func baseClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":            "https://accounts.google.com",
		"aud":            testClientID,
		"sub":            "100000000000000000001",
		"email":          "alice@example.com",
		"email_verified": true,
		"name":           "Alice Martin",
		"picture":        "https://lh3.googleusercontent.com/a/alice",
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := googleid.New(googleid.Config{})
	assert.ErrorIs(t, err, googleid.ErrMissingClientID)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	s := newSigner(t, "kid-1")
	srv, _ := serveJWKS(t, s)
	v := newVerifier(t, srv.URL)

	t.Run("valid token", func(t *testing.T) {
		identity, err := v.Verify(context.Background(), s.sign(t, baseClaims()))
		require.NoError(t, err)
		assert.Equal(t, "100000000000000000001", identity.Subject)
		assert.Equal(t, "alice@example.com", identity.Email)
		assert.True(t, identity.EmailVerified)
		assert.Equal(t, "Alice Martin", identity.Name)
		assert.Equal(t, "https://lh3.googleusercontent.com/a/alice", identity.Picture)
	})

	t.Run("bare issuer accepted", func(t *testing.T) {
		claims := baseClaims()
		claims["iss"] = "accounts.google.com"
		_, err := v.Verify(context.Background(), s.sign(t, claims))
		assert.NoError(t, err)
	})

	t.Run("audience mismatch", func(t *testing.T) {
		claims := baseClaims()
		claims["aud"] = "another-client-id"
		_, err := v.Verify(context.Background(), s.sign(t, claims))
		assert.ErrorIs(t, err, googleid.ErrInvalidAssertion)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := baseClaims()
		claims["exp"] = time.Now().Add(-time.Minute).Unix()
		_, err := v.Verify(context.Background(), s.sign(t, claims))
		assert.ErrorIs(t, err, googleid.ErrInvalidAssertion)
	})

	t.Run("unexpected issuer", func(t *testing.T) {
		claims := baseClaims()
		claims["iss"] = "https://evil.example.com"
		_, err := v.Verify(context.Background(), s.sign(t, claims))
		assert.ErrorIs(t, err, googleid.ErrInvalidAssertion)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, googleid.ErrInvalidAssertion)
	})
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Parallel()

	trusted := newSigner(t, "kid-1")
	srv, _ := serveJWKS(t, trusted)
	v := newVerifier(t, srv.URL)

	// Signed by a key Google never published, but claiming a known kid.
	rogue := newSigner(t, "kid-1")
	_, err := v.Verify(context.Background(), rogue.sign(t, baseClaims()))
	assert.ErrorIs(t, err, googleid.ErrInvalidAssertion)
}

func TestVerifyRefreshesOnUnknownKid(t *testing.T) {
	t.Parallel()

	first := newSigner(t, "kid-1")
	second := newSigner(t, "kid-2")

	srv, swap := serveJWKS(t, first)
	v := newVerifier(t, srv.URL)

	// Prime the cache with kid-1 only, rotate the published keys, then
	// verify a token signed by the new key.
	_, err := v.Verify(context.Background(), first.sign(t, baseClaims()))
	require.NoError(t, err)

	swap(second)

	_, err = v.Verify(context.Background(), second.sign(t, baseClaims()))
	assert.NoError(t, err)
}
