package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"medlookup/pkg"
)

// Session is one visitor's state plus what the next page render needs.
type Session struct {
	ID    string
	State *State
	// Last is the most recent successful lookup, shown under the form.
	Last *pkg.Result
	// Notice is a one-shot message from the previous action.
	Notice string

	mu sync.Mutex
}

// Lock serialises actions on the session; requests from the same browser
// may arrive concurrently.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// TakeNotice returns the pending notice and clears it.
func (s *Session) TakeNotice() string {
	n := s.Notice
	s.Notice = ""
	return n
}

// Store keeps sessions in memory until they have been idle for the TTL.
// Nothing is persisted; a restart starts every visitor over.
type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{
		cache: cache.New(ttl, ttl/6+time.Minute),
		ttl:   ttl,
	}
}

// Create starts a new visit.
func (r *Store) Create() *Session {
	s := &Session{ID: uuid.NewString(), State: New()}
	r.cache.Set(s.ID, s, cache.DefaultExpiration)
	return s
}

// Get returns the session and refreshes its expiry.
func (r *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	s := x.(*Session)
	r.cache.Set(id, s, cache.DefaultExpiration)
	return s, true
}

// GetOrCreate returns the session for id or starts a new one.
func (r *Store) GetOrCreate(id string) (*Session, bool) {
	if s, ok := r.Get(id); ok {
		return s, false
	}
	return r.Create(), true
}

func (r *Store) Delete(id string) {
	r.cache.Delete(id)
}

func (r *Store) Len() int {
	return r.cache.ItemCount()
}

func (r *Store) TTL() time.Duration { return r.ttl }
