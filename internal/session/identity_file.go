package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scandoc/pkg/platform/sentinel"
)

// FileIdentityStore persists the sub-client identifier in a single file so it
// survives process restarts, the client-side equivalent of the install id a
// mobile SDK would keep in local preferences.
type FileIdentityStore struct {
	path string
}

func NewFileIdentityStore(path string) *FileIdentityStore {
	return &FileIdentityStore{path: path}
}

// DefaultIdentityPath places the identifier under the user config dir.
func DefaultIdentityPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "scandoc", "sub_client"), nil
}

func (s *FileIdentityStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("sub-client id: %w", sentinel.ErrNotFound)
		}
		return "", fmt.Errorf("read sub-client id: %w", err)
	}
	id := strings.TrimSpace(string(raw))
	if id == "" {
		return "", fmt.Errorf("sub-client id: %w", sentinel.ErrNotFound)
	}
	return id, nil
}

func (s *FileIdentityStore) Save(subClient string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(subClient+"\n"), 0o600); err != nil {
		return fmt.Errorf("write sub-client id: %w", err)
	}
	return nil
}
