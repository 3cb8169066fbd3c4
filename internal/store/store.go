// Package store persists user records in MongoDB.
//
// It is the single owner of the users collection. Uniqueness of email and
// google_id is enforced by indexes, so concurrent writers racing on the same
// email resolve at the database and the loser surfaces ErrEmailTaken.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// Store provides access to the users collection.
type Store struct {
	users *mongo.Collection
}

// New creates a Store backed by the given database.
func New(db *mongo.Database) *Store {
	return &Store{users: db.Collection(usersCollection)}
}

// EnsureIndexes creates the uniqueness indexes the data model relies on.
// Sparse indexes allow many records without a google_id or loyalty card
// while keeping set values unique.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "loyalty_card", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	return s.wrap(err)
}

// Create inserts a new user record, assigning its id and timestamps.
func (s *Store) Create(ctx context.Context, u *User) error {
	now := time.Now()
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	if u.MemberSince.IsZero() {
		u.MemberSince = now
	}
	if u.Favorites == nil {
		u.Favorites = []string{}
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return s.wrap(err)
	}
	return nil
}

// FindByID returns the record with the given hex id, excluding the password
// hash. This is the session-resolution read path: it runs once per
// authenticated request.
func (s *Store) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var u User
	err = s.users.FindOne(ctx,
		bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"password": 0}),
	).Decode(&u)
	if err != nil {
		return nil, s.wrap(err)
	}
	return &u, nil
}

// Credentials returns the full record by hex id, password hash included.
// Only the password-change path should use it.
func (s *Store) Credentials(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var u User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		return nil, s.wrap(err)
	}
	return &u, nil
}

// FindByEmail returns the full record, credentials included. Callers must
// pass a normalized (lowercased) address.
func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, s.wrap(err)
	}
	return &u, nil
}

// UpdateProfile applies the non-nil fields of upd and returns the updated
// record without its password hash.
func (s *Store) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now()}
	for field, value := range map[string]*string{
		"first_name":    upd.FirstName,
		"last_name":     upd.LastName,
		"email":         upd.Email,
		"phone":         upd.Phone,
		"date_of_birth": upd.DateOfBirth,
		"address":       upd.Address,
		"city":          upd.City,
		"postal_code":   upd.PostalCode,
		"picture":       upd.Picture,
	} {
		if value != nil {
			set[field] = *value
		}
	}

	var u User
	err = s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"password": 0}),
	).Decode(&u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, s.wrap(err)
	}
	return &u, nil
}

// UpdatePassword replaces the stored password hash.
func (s *Store) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"password": hash, "updated_at": time.Now()}},
	)
	if err != nil {
		return s.wrap(err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// LinkGoogle attaches a federated identity to an existing record and adopts
// the provider avatar, leaving the password hash and profile untouched.
func (s *Store) LinkGoogle(ctx context.Context, id, googleID, picture string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	set := bson.M{"google_id": googleID, "updated_at": time.Now()}
	if picture != "" {
		set["picture"] = picture
	}

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrGoogleIDTaken
		}
		return s.wrap(err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetFavorites replaces the favorites set.
func (s *Store) SetFavorites(ctx context.Context, id string, favorites []string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}
	if favorites == nil {
		favorites = []string{}
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"favorites": favorites, "updated_at": time.Now()}},
	)
	if err != nil {
		return s.wrap(err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List returns every record with credentials excluded, for the admin user
// listing.
func (s *Store) List(ctx context.Context) ([]User, error) {
	cursor, err := s.users.Find(ctx,
		bson.M{},
		options.Find().SetProjection(bson.M{"password": 0, "google_id": 0}),
	)
	if err != nil {
		return nil, s.wrap(err)
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, s.wrap(err)
	}
	return users, nil
}

// Delete removes the record with the given hex id.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return s.wrap(err)
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// wrap maps driver errors onto the store's sentinel errors.
func (s *Store) wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrUserNotFound
	case mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return ErrUnavailable
	default:
		return err
	}
}
