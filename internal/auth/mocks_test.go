package auth_test

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/olachris/backend/internal/googleid"
	"github.com/olachris/backend/internal/store"
)

// mockStorage is an in-memory Storage implementation. failWith, when set,
// makes every call fail to simulate a database outage.
type mockStorage struct {
	mu       sync.Mutex
	users    map[string]*store.User
	failWith error
}

func newMockStorage() *mockStorage {
	return &mockStorage{users: make(map[string]*store.User)}
}

func (m *mockStorage) seed(u *store.User) *store.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	m.users[u.ID.Hex()] = u
	return u
}

func (m *mockStorage) get(id string) *store.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (m *mockStorage) Create(_ context.Context, u *store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return store.ErrEmailTaken
		}
	}
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	clone := *u
	m.users[u.ID.Hex()] = &clone
	return nil
}

func (m *mockStorage) FindByID(_ context.Context, id string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *u
	clone.PasswordHash = nil
	return &clone, nil
}

func (m *mockStorage) FindByEmail(_ context.Context, email string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockStorage) Credentials(_ context.Context, id string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockStorage) UpdateProfile(_ context.Context, id string, upd store.ProfileUpdate) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	if upd.Email != nil {
		for otherID, other := range m.users {
			if otherID != id && other.Email == *upd.Email {
				return nil, store.ErrEmailTaken
			}
		}
		u.Email = *upd.Email
	}
	for dst, src := range map[*string]*string{
		&u.FirstName:   upd.FirstName,
		&u.LastName:    upd.LastName,
		&u.Phone:       upd.Phone,
		&u.DateOfBirth: upd.DateOfBirth,
		&u.Address:     upd.Address,
		&u.City:        upd.City,
		&u.PostalCode:  upd.PostalCode,
		&u.Picture:     upd.Picture,
	} {
		if src != nil {
			*dst = *src
		}
	}
	clone := *u
	clone.PasswordHash = nil
	return &clone, nil
}

func (m *mockStorage) UpdatePassword(_ context.Context, id string, hash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *mockStorage) LinkGoogle(_ context.Context, id, googleID, picture string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for otherID, other := range m.users {
		if otherID != id && other.GoogleID == googleID {
			return store.ErrGoogleIDTaken
		}
	}
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.GoogleID = googleID
	if picture != "" {
		u.Picture = picture
	}
	return nil
}

func (m *mockStorage) SetFavorites(_ context.Context, id string, favorites []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Favorites = favorites
	return nil
}

func (m *mockStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// fakeVerifier returns a canned identity or error.
type fakeVerifier struct {
	identity *googleid.Identity
	err      error
}

func (f *fakeVerifier) Verify(context.Context, string) (*googleid.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.identity == nil {
		return nil, errors.New("no identity configured")
	}
	return f.identity, nil
}
