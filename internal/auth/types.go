package auth

import "github.com/olachris/backend/internal/store"

// RegisterParams is the input for credential sign-up. All fields are
// required; the password must be confirmed.
type RegisterParams struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginParams is the input for credential sign-in.
type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserParams is the admin-facing account creation input. Role is
// optional and defaults to a regular user.
type CreateUserParams struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// UpdateProfileParams carries the self-service profile changes. Nil fields
// are left untouched. Changing the password requires the current one.
type UpdateProfileParams struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postalCode"`
	Picture     *string `json:"picture"`

	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
}

// Session is the result of a successful sign-in: the user record and the
// signed token the transport layer sets as a cookie.
type Session struct {
	User  *store.User
	Token string
}
