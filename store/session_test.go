package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"docqa/types"
)

func newTestIndex(t *testing.T) *VectorIndex {
	t.Helper()
	idx, err := BuildIndex(context.Background(), []string{"chunk"}, [][]float32{{1, 0}})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	return idx
}

func TestSessionStore_TokensAreUnique(t *testing.T) {
	s := NewSessionStore(0)
	defer s.Close()

	idx := newTestIndex(t)
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := s.Create(idx)
		if _, dup := seen[id]; dup {
			t.Fatalf("Create() returned duplicate token %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSessionStore_GetAfterDelete(t *testing.T) {
	s := NewSessionStore(0)
	defer s.Close()

	id := s.Create(newTestIndex(t))
	if _, err := s.Get(id); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, types.ErrSessionNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_DoubleDelete(t *testing.T) {
	s := NewSessionStore(0)
	defer s.Close()

	id := s.Create(newTestIndex(t))
	if err := s.Delete(id); err != nil {
		t.Fatalf("first Delete() error = %v", err)
	}
	if err := s.Delete(id); !errors.Is(err, types.ErrSessionNotFound) {
		t.Errorf("second Delete() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_UnknownSession(t *testing.T) {
	s := NewSessionStore(0)
	defer s.Close()

	if _, err := s.Get("nope"); !errors.Is(err, types.ErrSessionNotFound) {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
	if err := s.Delete("nope"); !errors.Is(err, types.ErrSessionNotFound) {
		t.Errorf("Delete() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	s := NewSessionStore(0)
	defer s.Close()

	idx := newTestIndex(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.Create(idx)
			if _, err := s.Get(id); err != nil {
				t.Errorf("Get() error = %v", err)
			}
			if err := s.Delete(id); err != nil {
				t.Errorf("Delete() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestSessionStore_IdleEviction(t *testing.T) {
	s := NewSessionStore(time.Hour)
	defer s.Close()

	stale := s.Create(newTestIndex(t))
	if evicted := s.evictIdle(time.Now()); evicted != 0 {
		t.Fatalf("evictIdle() evicted %d fresh sessions", evicted)
	}
	if evicted := s.evictIdle(time.Now().Add(2 * time.Hour)); evicted != 1 {
		t.Fatalf("evictIdle() = %d, want 1", evicted)
	}
	if _, err := s.Get(stale); !errors.Is(err, types.ErrSessionNotFound) {
		t.Errorf("Get() after eviction error = %v, want ErrSessionNotFound", err)
	}
}
