package session

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SnapshotSeesFullWrites(t *testing.T) {
	store := NewStore("user-key", "sub-client", true)

	snap := store.Snapshot()
	assert.Equal(t, "user-key", snap.UserKey)
	assert.Equal(t, "sub-client", snap.SubClient)
	assert.True(t, snap.TermsAccepted)
	assert.Empty(t, snap.AccessToken)

	store.SetTokens("access-1", "refresh-1")
	snap = store.Snapshot()
	assert.Equal(t, "access-1", snap.AccessToken)
	assert.Equal(t, "refresh-1", snap.RefreshToken)

	store.SetAccessToken("access-2")
	snap = store.Snapshot()
	assert.Equal(t, "access-2", snap.AccessToken)
	assert.Equal(t, "refresh-1", snap.RefreshToken, "refresh token must not rotate")
}

func TestStore_ConcurrentReadersAndWriters(t *testing.T) {
	store := NewStore("user-key", "sub-client", false)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.SetTokens("access", "refresh")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := store.Snapshot()
				// A snapshot is either fully empty or fully written.
				if snap.AccessToken != "" {
					assert.Equal(t, "refresh", snap.RefreshToken)
				}
			}
		}()
	}
	wg.Wait()
}

func TestSubClient_GeneratedOnceAndStable(t *testing.T) {
	store := NewInMemoryIdentityStore()

	first, err := SubClient(store)
	require.NoError(t, err)
	_, err = uuid.Parse(first)
	require.NoError(t, err, "generated sub-client id must be a UUID")

	second, err := SubClient(store)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFileIdentityStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sub_client")

	first, err := SubClient(NewFileIdentityStore(path))
	require.NoError(t, err)

	second, err := SubClient(NewFileIdentityStore(path))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
