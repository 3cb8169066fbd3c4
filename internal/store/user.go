package store

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultAvatarURL is assigned to accounts created without a picture.
const DefaultAvatarURL = "https://images.app.goo.gl/A1NpAWx21hhC1bdYA"

// Roles a user record can carry.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Loyalty levels, ordered from entry tier upward.
const (
	LevelBronze   = "Bronze"
	LevelSilver   = "Silver"
	LevelGold     = "Gold"
	LevelPlatinum = "Platinum"
)

// User is a credential-store record.
//
// PasswordHash and GoogleID are login credentials: they are never marshaled
// to JSON, and read paths that serve profile data exclude the password hash
// at the query level. A record is usable for login when it has at least one
// of the two.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string        `bson:"first_name" json:"firstName"`
	LastName     string        `bson:"last_name" json:"lastName"`
	Email        string        `bson:"email" json:"email"`
	Phone        string        `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash []byte        `bson:"password,omitempty" json:"-"`
	GoogleID     string        `bson:"google_id,omitempty" json:"-"`
	Role         string        `bson:"role" json:"role"`
	Picture      string        `bson:"picture,omitempty" json:"picture,omitempty"`

	DateOfBirth string `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	Address     string `bson:"address,omitempty" json:"address,omitempty"`
	City        string `bson:"city,omitempty" json:"city,omitempty"`
	PostalCode  string `bson:"postal_code,omitempty" json:"postalCode,omitempty"`

	LoyaltyCard string    `bson:"loyalty_card,omitempty" json:"loyaltyCard,omitempty"`
	MemberSince time.Time `bson:"member_since" json:"memberSince"`
	Points      int       `bson:"points" json:"points"`
	Level       string    `bson:"level" json:"level"`
	Favorites   []string  `bson:"favorites" json:"favorites"`

	CreatedAt time.Time `bson:"created_at" json:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"-"`
}

// HasPassword reports whether the record carries a password credential.
func (u *User) HasPassword() bool {
	return len(u.PasswordHash) > 0
}

// IsAdmin reports whether the record carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasFavorite reports whether the product id is in the favorites set.
func (u *User) HasFavorite(productID string) bool {
	for _, id := range u.Favorites {
		if id == productID {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the user-editable profile fields. Nil pointers leave
// the stored value untouched.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	DateOfBirth *string
	Address     *string
	City        *string
	PostalCode  *string
	Picture     *string
}
