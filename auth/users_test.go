package auth

import (
	"errors"
	"reflect"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func testUserStore(t *testing.T) *UserStore {
	t.Helper()
	store, err := NewUserStore([]UserConfig{
		{
			Username: "alice",
			Password: "secret-pass",
			Roles:    []string{"admin"},
			Policies: []string{"read:seats", "write:seats"},
		},
		{
			Username: "bob",
			Password: "other-pass",
			Roles:    []string{"user"},
			Policies: []string{"read:seats"},
		},
	}, NewBcryptHasher(WithCost(bcrypt.MinCost)))
	if err != nil {
		t.Fatalf("NewUserStore() error: %v", err)
	}
	return store
}

func TestUserStoreVerify(t *testing.T) {
	store := testUserStore(t)

	grant, err := store.Verify("alice", "secret-pass")
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	want := Grant{Roles: []string{"admin"}, Policies: []string{"read:seats", "write:seats"}}
	if !reflect.DeepEqual(grant, want) {
		t.Errorf("grant: got %+v, want %+v", grant, want)
	}
}

func TestUserStoreVerifyFailures(t *testing.T) {
	store := testUserStore(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "wrong"},
		{"unknown user", "mallory", "secret-pass"},
		{"empty credentials", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Verify(tt.username, tt.password)
			if !errors.Is(err, ErrBadCredentials) {
				t.Errorf("expected ErrBadCredentials, got %v", err)
			}
		})
	}
}

func TestUserStorePrehashedPassword(t *testing.T) {
	hasher := NewBcryptHasher(WithCost(bcrypt.MinCost))
	hash, err := hasher.Hash("prehashed-pass")
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}

	store, err := NewUserStore([]UserConfig{
		{Username: "carol", PasswordHash: hash, Roles: []string{"user"}},
	}, hasher)
	if err != nil {
		t.Fatalf("NewUserStore() error: %v", err)
	}

	if _, err := store.Verify("carol", "prehashed-pass"); err != nil {
		t.Errorf("Verify() with prehashed password: %v", err)
	}
	if _, err := store.Verify("carol", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
}

func TestBcryptHasherRejectsLongPassword(t *testing.T) {
	hasher := NewBcryptHasher(WithCost(bcrypt.MinCost))
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := hasher.Hash(string(long)); err == nil {
		t.Error("expected error for password over bcrypt limit")
	}
}
