package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/olachris/backend/internal/logger"
	"github.com/olachris/backend/internal/sanitizer"
	"github.com/olachris/backend/internal/store"
	"github.com/olachris/backend/internal/validator"
)

// UpdateProfile applies self-service profile changes and returns the updated
// record. Email changes are silently skipped for Google-linked accounts,
// whose address is owned by the provider. An optional password change
// requires the current password and passes the same strength policy as
// registration.
func (s *Service) UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*store.User, error) {
	current, err := s.storage.Credentials(ctx, userID)
	if err != nil {
		return nil, err
	}

	upd := store.ProfileUpdate{
		Phone:       params.Phone,
		DateOfBirth: params.DateOfBirth,
		Address:     params.Address,
		City:        params.City,
		PostalCode:  params.PostalCode,
		Picture:     params.Picture,
	}

	var rules []validator.Rule
	if params.FirstName != nil {
		trimmed := sanitizer.TrimName(*params.FirstName)
		upd.FirstName = &trimmed
		rules = append(rules, validator.Required("firstName", trimmed))
	}
	if params.LastName != nil {
		trimmed := sanitizer.TrimName(*params.LastName)
		upd.LastName = &trimmed
		rules = append(rules, validator.Required("lastName", trimmed))
	}
	if params.Email != nil && current.GoogleID == "" {
		normalized := sanitizer.NormalizeEmail(*params.Email)
		upd.Email = &normalized
		rules = append(rules, validator.ValidEmail("email", normalized))
	}

	changePassword := params.NewPassword != nil
	if changePassword {
		rules = append(rules, validator.StrongPassword("newPassword", *params.NewPassword))
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, err
	}

	if changePassword {
		if !current.HasPassword() {
			return nil, ErrGoogleOnlyAccount
		}
		if params.CurrentPassword == nil {
			return nil, ErrPasswordMismatch
		}
		if err := bcrypt.CompareHashAndPassword(current.PasswordHash, []byte(*params.CurrentPassword)); err != nil {
			return nil, ErrPasswordMismatch
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*params.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.storage.UpdatePassword(ctx, userID, hash); err != nil {
			return nil, err
		}

		s.logger.Info("password changed",
			logger.UserID(userID),
			logger.Event("password_change"),
		)
	}

	user, err := s.storage.UpdateProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user's own account. Admin accounts are refused:
// removing an administrator goes through the admin surface, by another
// administrator.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.storage.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return ErrAdminAccount
	}

	if err := s.storage.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("account deleted",
		logger.UserID(userID),
		logger.Event("account_delete"),
	)
	return nil
}

// ToggleFavorite adds the product id to the user's favorites, or removes it
// when already present. It returns the resulting membership and the full set.
func (s *Service) ToggleFavorite(ctx context.Context, userID, productID string) (bool, []string, error) {
	if err := validator.Apply(validator.Required("productId", productID)); err != nil {
		return false, nil, err
	}

	user, err := s.storage.FindByID(ctx, userID)
	if err != nil {
		return false, nil, err
	}

	favorites := make([]string, 0, len(user.Favorites)+1)
	isFavorite := true
	for _, id := range user.Favorites {
		if id == productID {
			isFavorite = false
			continue
		}
		favorites = append(favorites, id)
	}
	if isFavorite {
		favorites = append(favorites, productID)
	}

	if err := s.storage.SetFavorites(ctx, userID, favorites); err != nil {
		return false, nil, err
	}
	return isFavorite, favorites, nil
}
