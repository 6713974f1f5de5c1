package session

import (
	"fmt"

	"github.com/google/uuid"
)

// IdentityStore persists the stable per-install sub-client identifier.
//
// Error Contract:
// - Load returns ErrNotFound (wrapped) when no identifier has been stored yet
// - Save replaces any existing identifier
type IdentityStore interface {
	Load() (string, error)
	Save(subClient string) error
}

// SubClient returns the persisted sub-client identifier, generating and
// persisting a fresh UUID on first use. The value is immutable for the
// process lifetime afterwards.
func SubClient(store IdentityStore) (string, error) {
	if existing, err := store.Load(); err == nil {
		return existing, nil
	}
	generated := uuid.NewString()
	if err := store.Save(generated); err != nil {
		return "", fmt.Errorf("persist sub-client id: %w", err)
	}
	return generated, nil
}
