// Package auth answers the one question the login form asks: does this
// username and password pair belong to a user.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a username and password. A false result with a nil error
// means the credentials were wrong; an error means the check itself failed.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// StaticVerifier accepts exactly one configured pair.
type StaticVerifier struct {
	username string
	password string
}

func NewStaticVerifier(username, password string) *StaticVerifier {
	return &StaticVerifier{username: username, password: password}
}

func (v *StaticVerifier) Verify(_ context.Context, username, password string) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1
	return userOK && passOK, nil
}

// CredentialStore looks up the bcrypt hash stored for a username.
type CredentialStore interface {
	PasswordHash(ctx context.Context, username string) (hash string, found bool, err error)
}

// HashedVerifier checks passwords against bcrypt hashes from a store.
type HashedVerifier struct {
	store CredentialStore
}

func NewHashedVerifier(store CredentialStore) *HashedVerifier {
	return &HashedVerifier{store: store}
}

func (v *HashedVerifier) Verify(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	hash, found, err := v.store.PasswordHash(ctx, username)
	if err != nil {
		return false, fmt.Errorf("lookup credentials: %w", err)
	}
	if !found {
		return false, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("compare password: %w", err)
	}
	return true, nil
}

// HashPassword produces the bcrypt hash stored for a user.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
