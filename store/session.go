package store

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"docqa/types"
)

// SessionStore maps opaque session tokens to prebuilt vector indexes so a
// client can re-query a document without re-uploading it. It lives only as
// long as the process; a restart drops every session.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

type session struct {
	index    *VectorIndex
	lastUsed atomic.Int64 // unix nanos, touched outside the map lock
}

// NewSessionStore creates a store. With ttl > 0 a janitor goroutine evicts
// sessions idle longer than ttl, bounding memory growth from abandoned
// uploads; ttl 0 disables eviction.
func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	if ttl > 0 {
		go s.evictLoop()
	}
	return s
}

// Create registers a fully built index under a fresh random token.
func (s *SessionStore) Create(idx *VectorIndex) string {
	id := uuid.NewString()
	entry := &session{index: idx}
	entry.lastUsed.Store(time.Now().UnixNano())

	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()

	log.Debug().Str("session_id", id).Int("chunks", idx.Size()).Msg("session created")
	return id
}

func (s *SessionStore) Get(id string) (*VectorIndex, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, types.ErrSessionNotFound
	}
	entry.lastUsed.Store(time.Now().UnixNano())
	return entry.index, nil
}

// Delete removes a session. Deleting a token twice is a client error, not a
// silent no-op.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return types.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the janitor goroutine.
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

func (s *SessionStore) evictLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictIdle(time.Now())
		}
	}
}

func (s *SessionStore) evictIdle(now time.Time) int {
	cutoff := now.Add(-s.ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, entry := range s.sessions {
		if entry.lastUsed.Load() < cutoff {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		log.Debug().Int("evicted", evicted).Msg("idle sessions evicted")
	}
	return evicted
}
