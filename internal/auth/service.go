// Package auth implements account sign-up, sign-in and profile management.
//
// The service owns the credential rules: bcrypt password hashing, the
// uniform invalid-credentials failure on login, and the linking rules for
// Google federated identities. Transport concerns (cookies, status codes)
// live in the api and session packages.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/olachris/backend/internal/logger"
	"github.com/olachris/backend/internal/sanitizer"
	"github.com/olachris/backend/internal/store"
	"github.com/olachris/backend/internal/token"
	"github.com/olachris/backend/internal/validator"
)

// DefaultBcryptCost matches the cost the existing password hashes were
// created with.
const DefaultBcryptCost = 10

// Storage is the consumer-side view of the user store.
type Storage interface {
	Create(ctx context.Context, u *store.User) error
	FindByID(ctx context.Context, id string) (*store.User, error)
	FindByEmail(ctx context.Context, email string) (*store.User, error)
	Credentials(ctx context.Context, id string) (*store.User, error)
	UpdateProfile(ctx context.Context, id string, upd store.ProfileUpdate) (*store.User, error)
	UpdatePassword(ctx context.Context, id string, hash []byte) error
	LinkGoogle(ctx context.Context, id, googleID, picture string) error
	SetFavorites(ctx context.Context, id string, favorites []string) error
	Delete(ctx context.Context, id string) error
}

// Service implements the account operations.
type Service struct {
	storage    Storage
	codec      *token.Codec
	google     googleTokenVerifier
	bcryptCost int
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithGoogleVerifier enables Google federated sign-in.
func WithGoogleVerifier(v googleTokenVerifier) Option {
	return func(s *Service) { s.google = v }
}

// WithBcryptCost overrides the password hashing cost. Intended for tests,
// where the default cost dominates runtime.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost {
			s.bcryptCost = cost
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New creates a Service over the given storage and session codec.
func New(storage Storage, codec *token.Codec, opts ...Option) *Service {
	s := &Service{
		storage:    storage,
		codec:      codec,
		bcryptCost: DefaultBcryptCost,
		logger:     logger.NewDiscard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a credential account and signs it in.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	params.FirstName = sanitizer.TrimName(params.FirstName)
	params.LastName = sanitizer.TrimName(params.LastName)
	params.Email = sanitizer.NormalizeEmail(params.Email)
	params.Phone = strings.TrimSpace(params.Phone)

	if err := validator.Apply(
		validator.Required("firstName", params.FirstName),
		validator.Required("lastName", params.LastName),
		validator.ValidEmail("email", params.Email),
		validator.Required("phone", params.Phone),
		validator.StrongPassword("password", params.Password),
		validator.Match("confirmPassword", params.ConfirmPassword, params.Password),
	); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &store.User{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
		Phone:        params.Phone,
		PasswordHash: hash,
		Role:         store.RoleUser,
		Picture:      store.DefaultAvatarURL,
		LoyaltyCard:  newLoyaltyCard(),
		Level:        store.LevelBronze,
		Favorites:    []string{},
	}
	if err := s.storage.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.logger.Info("user registered",
		logger.UserID(user.ID.Hex()),
		logger.Event("register"),
	)

	return s.startSession(user)
}

// Login verifies credentials and signs the user in. Unknown emails and wrong
// passwords both return ErrInvalidCredentials; an account provisioned through
// Google with no password set returns ErrGoogleOnlyAccount.
func (s *Service) Login(ctx context.Context, params LoginParams) (*Session, error) {
	params.Email = sanitizer.NormalizeEmail(params.Email)

	if err := validator.Apply(
		validator.Required("email", params.Email),
		validator.Required("password", params.Password),
	); err != nil {
		return nil, err
	}

	user, err := s.storage.FindByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.HasPassword() {
		if user.GoogleID != "" {
			return nil, ErrGoogleOnlyAccount
		}
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(params.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user logged in",
		logger.UserID(user.ID.Hex()),
		logger.Event("login"),
	)

	return s.startSession(user)
}

// CreateUser is the admin operation for provisioning an account directly,
// optionally with the admin role. It does not start a session.
func (s *Service) CreateUser(ctx context.Context, params CreateUserParams) (*store.User, error) {
	params.FirstName = sanitizer.TrimName(params.FirstName)
	params.LastName = sanitizer.TrimName(params.LastName)
	params.Email = sanitizer.NormalizeEmail(params.Email)
	params.Phone = strings.TrimSpace(params.Phone)
	if params.Role == "" {
		params.Role = store.RoleUser
	}

	if err := validator.Apply(
		validator.Required("firstName", params.FirstName),
		validator.Required("lastName", params.LastName),
		validator.ValidEmail("email", params.Email),
		validator.StrongPassword("password", params.Password),
		validator.OneOf("role", params.Role, store.RoleUser, store.RoleAdmin),
	); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &store.User{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
		Phone:        params.Phone,
		PasswordHash: hash,
		Role:         params.Role,
		Picture:      store.DefaultAvatarURL,
		LoyaltyCard:  newLoyaltyCard(),
		Level:        store.LevelBronze,
		Favorites:    []string{},
	}
	if err := s.storage.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	user.PasswordHash = nil
	return user, nil
}

// startSession issues a session credential for the user.
func (s *Service) startSession(user *store.User) (*Session, error) {
	signed, err := s.codec.Issue(token.SessionClaims{
		UserID:    user.ID.Hex(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Picture:   user.Picture,
		Role:      user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	user.PasswordHash = nil
	return &Session{User: user, Token: signed}, nil
}

// newLoyaltyCard generates a fresh loyalty card number.
func newLoyaltyCard() string {
	return uuid.NewString()
}
