package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier("admin", "admin123")
	ctx := context.Background()

	cases := []struct {
		user, pass string
		want       bool
	}{
		{"admin", "admin123", true},
		{"admin", "wrong", false},
		{"Admin", "admin123", false},
		{"", "", false},
		{"admin", "admin1234", false},
	}
	for _, tc := range cases {
		ok, err := v.Verify(ctx, tc.user, tc.pass)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "%s/%s", tc.user, tc.pass)
	}
}

type memStore struct {
	hashes map[string]string
	err    error
}

func (m memStore) PasswordHash(_ context.Context, username string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	h, ok := m.hashes[username]
	return h, ok, nil
}

func TestHashedVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	v := NewHashedVerifier(memStore{hashes: map[string]string{"pharmacist": string(hash)}})
	ctx := context.Background()

	ok, err := v.Verify(ctx, "pharmacist", "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(ctx, "pharmacist", "guess")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.Verify(ctx, "nobody", "s3cret")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.Verify(ctx, "pharmacist", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashedVerifierStoreError(t *testing.T) {
	boom := errors.New("connection refused")
	v := NewHashedVerifier(memStore{err: boom})
	ok, err := v.Verify(context.Background(), "pharmacist", "s3cret")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestHashedVerifierCorruptHash(t *testing.T) {
	v := NewHashedVerifier(memStore{hashes: map[string]string{"x": "not-a-bcrypt-hash"}})
	ok, err := v.Verify(context.Background(), "x", "y")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("admin123")))
}
