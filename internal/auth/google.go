package auth

import (
	"context"
	"errors"

	"github.com/olachris/backend/internal/googleid"
	"github.com/olachris/backend/internal/logger"
	"github.com/olachris/backend/internal/sanitizer"
	"github.com/olachris/backend/internal/store"
)

// googleTokenVerifier validates a Google ID token assertion. Satisfied by
// *googleid.Verifier; tests substitute a fake.
type googleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*googleid.Identity, error)
}

// GoogleAuth signs a user in with a Google ID token assertion, provisioning
// or linking an account as needed:
//
//   - no account with the asserted email: a new password-less account is
//     created from the Google profile;
//   - existing account without a linked Google identity: the identity is
//     linked in place, the provider avatar is adopted, and any existing
//     password keeps working;
//   - existing account already linked to a different Google subject:
//     ErrGoogleConflict, and nothing is modified.
//
// Any verification failure surfaces as ErrGoogleAuthFailed so the endpoint
// leaks nothing about why the assertion was rejected.
func (s *Service) GoogleAuth(ctx context.Context, idToken string) (*Session, error) {
	if s.google == nil {
		return nil, ErrGoogleAuthFailed
	}

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.logger.Warn("google sign-in rejected",
			logger.Error(err),
			logger.Event("google_auth"),
		)
		return nil, ErrGoogleAuthFailed
	}

	email := sanitizer.NormalizeEmail(identity.Email)

	user, err := s.storage.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.GoogleID == "" {
			if err := s.storage.LinkGoogle(ctx, user.ID.Hex(), identity.Subject, identity.Picture); err != nil {
				if errors.Is(err, store.ErrGoogleIDTaken) {
					return nil, ErrGoogleConflict
				}
				return nil, err
			}
			user.GoogleID = identity.Subject
			if identity.Picture != "" {
				user.Picture = identity.Picture
			}
		} else if user.GoogleID != identity.Subject {
			return nil, ErrGoogleConflict
		}

	case errors.Is(err, store.ErrUserNotFound):
		user, err = s.provisionGoogleUser(ctx, email, identity)
		if err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	s.logger.Info("google sign-in",
		logger.UserID(user.ID.Hex()),
		logger.Event("google_auth"),
	)

	return s.startSession(user)
}

// provisionGoogleUser creates a password-less account from a verified Google
// identity. Display names from Google arrive as a single string and are
// split into first and last.
func (s *Service) provisionGoogleUser(ctx context.Context, email string, identity *googleid.Identity) (*store.User, error) {
	firstName, lastName := sanitizer.SplitDisplayName(identity.Name, "User", "Google")

	picture := identity.Picture
	if picture == "" {
		picture = store.DefaultAvatarURL
	}

	user := &store.User{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		GoogleID:    identity.Subject,
		Role:        store.RoleUser,
		Picture:     picture,
		LoyaltyCard: newLoyaltyCard(),
		Level:       store.LevelBronze,
		Favorites:   []string{},
	}
	if err := s.storage.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			// Lost a race with a concurrent sign-up for the same email.
			return nil, ErrGoogleConflict
		}
		return nil, err
	}
	return user, nil
}
