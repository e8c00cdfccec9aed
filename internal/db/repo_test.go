package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "42P01"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestRepositoryIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	conn, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, Migrate(ctx, conn))
	require.NoError(t, Migrate(ctx, conn), "migration must be idempotent")

	repo := NewRepository(conn)
	username := "it-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = conn.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username)
	})

	_, found, err := repo.PasswordHash(ctx, username)
	require.NoError(t, err)
	assert.False(t, found)

	created, err := repo.EnsureUser(ctx, username, "hash-1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.EnsureUser(ctx, username, "hash-2")
	require.NoError(t, err)
	assert.False(t, created)

	hash, found, err := repo.PasswordHash(ctx, username)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hash-1", hash)
}
