package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olachris/backend/internal/auth"
	"github.com/olachris/backend/internal/googleid"
	"github.com/olachris/backend/internal/store"
)

func googleIdentity() *googleid.Identity {
	return &googleid.Identity{
		Subject:       "100000000000000000001",
		Email:         "Alice@Example.com",
		EmailVerified: true,
		Name:          "Alice Beth Martin",
		Picture:       "https://lh3.googleusercontent.com/a/alice",
	}
}

func TestGoogleAuth(t *testing.T) {
	t.Parallel()

	t.Run("provisions a password-less account", func(t *testing.T) {
		t.Parallel()
		storage := newMockStorage()
		svc := newService(t, storage,
			auth.WithGoogleVerifier(&fakeVerifier{identity: googleIdentity()}))

		session, err := svc.GoogleAuth(context.Background(), "id-token")
		require.NoError(t, err)

		user := session.User
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.FirstName)
		assert.Equal(t, "Beth Martin", user.LastName)
		assert.Equal(t, "https://lh3.googleusercontent.com/a/alice", user.Picture)
		assert.Equal(t, store.RoleUser, user.Role)
		assert.NotEmpty(t, user.LoyaltyCard)

		stored := storage.get(user.ID.Hex())
		require.NotNil(t, stored)
		assert.Equal(t, "100000000000000000001", stored.GoogleID)
		assert.False(t, stored.HasPassword())
	})

	t.Run("fills missing name parts with placeholders", func(t *testing.T) {
		t.Parallel()
		identity := googleIdentity()
		identity.Name = ""
		svc := newService(t, newMockStorage(),
			auth.WithGoogleVerifier(&fakeVerifier{identity: identity}))

		session, err := svc.GoogleAuth(context.Background(), "id-token")
		require.NoError(t, err)
		assert.Equal(t, "User", session.User.FirstName)
		assert.Equal(t, "Google", session.User.LastName)
	})

	t.Run("links an existing account and keeps its password", func(t *testing.T) {
		t.Parallel()
		storage := newMockStorage()
		seeded := seedUser(t, storage, "alice@example.com")
		svc := newService(t, storage,
			auth.WithGoogleVerifier(&fakeVerifier{identity: googleIdentity()}))

		session, err := svc.GoogleAuth(context.Background(), "id-token")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, session.User.ID)
		assert.Equal(t, "https://lh3.googleusercontent.com/a/alice", session.User.Picture)

		stored := storage.get(seeded.ID.Hex())
		assert.Equal(t, "100000000000000000001", stored.GoogleID)
		assert.True(t, stored.HasPassword())

		// Password login still works after linking.
		_, err = svc.Login(context.Background(), auth.LoginParams{
			Email:    "alice@example.com",
			Password: testPassword,
		})
		assert.NoError(t, err)
	})

	t.Run("repeat sign-in for a linked account", func(t *testing.T) {
		t.Parallel()
		storage := newMockStorage()
		storage.seed(&store.User{
			FirstName: "Alice",
			LastName:  "Martin",
			Email:     "alice@example.com",
			GoogleID:  "100000000000000000001",
			Role:      store.RoleUser,
		})
		svc := newService(t, storage,
			auth.WithGoogleVerifier(&fakeVerifier{identity: googleIdentity()}))

		session, err := svc.GoogleAuth(context.Background(), "id-token")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", session.User.Email)
	})

	t.Run("conflicting google subject mutates nothing", func(t *testing.T) {
		t.Parallel()
		storage := newMockStorage()
		seeded := storage.seed(&store.User{
			FirstName: "Alice",
			LastName:  "Martin",
			Email:     "alice@example.com",
			GoogleID:  "some-other-subject",
			Role:      store.RoleUser,
		})
		svc := newService(t, storage,
			auth.WithGoogleVerifier(&fakeVerifier{identity: googleIdentity()}))

		_, err := svc.GoogleAuth(context.Background(), "id-token")
		assert.ErrorIs(t, err, auth.ErrGoogleConflict)

		stored := storage.get(seeded.ID.Hex())
		assert.Equal(t, "some-other-subject", stored.GoogleID)
	})

	t.Run("verifier failure collapses to a single error", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, newMockStorage(),
			auth.WithGoogleVerifier(&fakeVerifier{err: errors.New("bad signature: kid mismatch")}))

		_, err := svc.GoogleAuth(context.Background(), "id-token")
		assert.ErrorIs(t, err, auth.ErrGoogleAuthFailed)
		assert.NotContains(t, err.Error(), "kid")
	})

	t.Run("no verifier configured", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, newMockStorage())

		_, err := svc.GoogleAuth(context.Background(), "id-token")
		assert.ErrorIs(t, err, auth.ErrGoogleAuthFailed)
	})
}
