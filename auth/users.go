package auth

import (
	"errors"
	"fmt"
)

// ErrBadCredentials is returned for unknown usernames and wrong passwords
// alike, so login failures do not reveal which part was wrong.
var ErrBadCredentials = errors.New("auth: invalid username or password")

// Grant is the role/policy set issued into a user's tokens.
type Grant struct {
	Roles    []string
	Policies []string
}

// UserStore verifies login credentials against the configured user list.
// All passwords are stored as bcrypt digests; plaintext entries from
// config are hashed once at construction. The store is immutable after
// construction.
type UserStore struct {
	hasher    Hasher
	users     map[string]storedUser
	dummyHash string
}

type storedUser struct {
	passwordHash string
	grant        Grant
}

// NewUserStore builds a store from configured users, hashing any plaintext
// passwords with the given hasher.
func NewUserStore(users []UserConfig, hasher Hasher) (*UserStore, error) {
	if hasher == nil {
		hasher = NewBcryptHasher()
	}

	dummy, err := hasher.Hash("busline-not-a-password")
	if err != nil {
		return nil, fmt.Errorf("auth: init user store: %w", err)
	}

	store := &UserStore{
		hasher:    hasher,
		users:     make(map[string]storedUser, len(users)),
		dummyHash: dummy,
	}
	for _, u := range users {
		hash := u.PasswordHash
		if hash == "" {
			var err error
			hash, err = hasher.Hash(u.Password)
			if err != nil {
				return nil, fmt.Errorf("auth: user %q: %w", u.Username, err)
			}
		}
		store.users[u.Username] = storedUser{
			passwordHash: hash,
			grant:        Grant{Roles: u.Roles, Policies: u.Policies},
		}
	}
	return store, nil
}

// Verify checks a username/password pair and returns the user's grant.
func (s *UserStore) Verify(username, password string) (Grant, error) {
	u, ok := s.users[username]
	if !ok {
		// Compare against a throwaway hash so unknown usernames cost
		// the same as wrong passwords.
		_ = s.hasher.Verify(password, s.dummyHash)
		return Grant{}, ErrBadCredentials
	}
	if err := s.hasher.Verify(password, u.passwordHash); err != nil {
		return Grant{}, ErrBadCredentials
	}
	return u.grant, nil
}
