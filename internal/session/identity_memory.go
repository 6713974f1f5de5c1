package session

import (
	"fmt"
	"sync"

	"scandoc/pkg/platform/sentinel"
)

// InMemoryIdentityStore keeps the sub-client identifier in memory for
// tests/dev.
type InMemoryIdentityStore struct {
	mu        sync.Mutex
	subClient string
}

func NewInMemoryIdentityStore() *InMemoryIdentityStore {
	return &InMemoryIdentityStore{}
}

func (s *InMemoryIdentityStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subClient == "" {
		return "", fmt.Errorf("sub-client id: %w", sentinel.ErrNotFound)
	}
	return s.subClient, nil
}

func (s *InMemoryIdentityStore) Save(subClient string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subClient = subClient
	return nil
}
