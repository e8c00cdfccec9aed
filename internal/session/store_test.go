package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medlookup/pkg"
)

func TestStoreCreateGet(t *testing.T) {
	store := NewStore(time.Minute)

	s := store.Create()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, pkg.ViewLoggedOut, s.State.View())

	got, ok := store.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, store.Len())

	_, ok = store.Get("")
	assert.False(t, ok)
	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestStoreGetOrCreate(t *testing.T) {
	store := NewStore(time.Minute)

	a, created := store.GetOrCreate("unknown")
	assert.True(t, created)
	assert.NotEqual(t, "unknown", a.ID)

	b, created := store.GetOrCreate(a.ID)
	assert.False(t, created)
	assert.Same(t, a, b)
}

func TestStoreSessionsAreIndependent(t *testing.T) {
	store := NewStore(time.Minute)
	a, b := store.Create(), store.Create()
	require.NoError(t, a.State.Login(true))

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, pkg.ViewLanding, a.State.View())
	assert.Equal(t, pkg.ViewLoggedOut, b.State.View())
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(20 * time.Millisecond)
	s := store.Create()
	time.Sleep(40 * time.Millisecond)
	_, ok := store.Get(s.ID)
	assert.False(t, ok)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(time.Minute)
	s := store.Create()
	store.Delete(s.ID)
	_, ok := store.Get(s.ID)
	assert.False(t, ok)
}

func TestTakeNotice(t *testing.T) {
	s := &Session{Notice: "Invalid credentials"}
	assert.Equal(t, "Invalid credentials", s.TakeNotice())
	assert.Empty(t, s.TakeNotice())
}
