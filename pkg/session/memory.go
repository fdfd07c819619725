package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps buffers in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	buffers map[string]Buffer
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buffers: make(map[string]Buffer)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Buffer, error) {
	s.mu.RLock()
	buf, ok := s.buffers[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if buf.IsExpired() {
		s.Delete(ctx, id)
		return nil, nil
	}
	return &buf, nil
}

func (s *MemoryStore) Set(ctx context.Context, buf *Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffers[buf.ID] = *buf
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, id)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, buf := range s.buffers {
		if now.After(buf.ExpiresAt) {
			delete(s.buffers, id)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored buffers, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffers)
}

var _ Store = (*MemoryStore)(nil)
