package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	royaltyapp "github.com/inkhouse/backend/internal/application/royalty"
)

// Ensure StubObjectStorage implements ObjectStorage
var _ royaltyapp.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage is an in-memory ObjectStorage for development and tests.
type StubObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new empty in-memory store
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{objects: make(map[string][]byte)}
}

// Upload stores the object bytes under the given key
func (s *StubObjectStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	if key == "" {
		return fmt.Errorf("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = buf
	return nil
}

// Download returns the stored object bytes
func (s *StubObjectStorage) Download(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// PresignDownload returns a deterministic fake URL for the stored object
func (s *StubObjectStorage) PresignDownload(_ context.Context, key, filename string, _ time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[key]; !ok {
		return "", fmt.Errorf("object %s not found", key)
	}
	return fmt.Sprintf("https://storage.invalid/%s?filename=%s", key, filename), nil
}

// Exists reports whether an object is stored under the key
func (s *StubObjectStorage) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}

// Len returns the number of stored objects
func (s *StubObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
