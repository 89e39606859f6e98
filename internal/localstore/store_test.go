package localstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"munc-inventory/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "state.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)

	var profile domain.UserProfile
	found, err := store.Get(KeyUser, &profile)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	saved := domain.UserProfile{
		ID:     uuid.New(),
		Name:   "alice",
		Email:  "alice@example.com",
		Avatar: "https://ui-avatars.com/api/?name=alice&background=3b82f6&color=fff",
	}
	require.NoError(t, store.Put(KeyUser, saved))

	var loaded domain.UserProfile
	found, err := store.Get(KeyUser, &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, saved, loaded)
}

func TestNotificationListRoundTripPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path, zap.NewNop())
	require.NoError(t, err)

	saved := []domain.Notification{
		{ID: uuid.New(), Title: "Welcome Back!", Message: "You have successfully logged in.", Severity: domain.SeveritySuccess, Timestamp: time.Now().UTC().Truncate(time.Second)},
		{ID: uuid.New(), Title: "Logged Out", Message: "You have been successfully logged out.", Severity: domain.SeverityInfo, Read: true, Timestamp: time.Now().UTC().Truncate(time.Second)},
	}
	require.NoError(t, store.Put(KeyNotifications, saved))
	require.NoError(t, store.Close())

	// Reopen the same file, the persisted list must come back unchanged
	store, err = Open(path, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	var loaded []domain.Notification
	found, err := store.Get(KeyNotifications, &loaded)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved, loaded)
}

func TestCorruptEntryIsDeleted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Plant a value that is not valid JSON
	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(KeyUser), []byte("{not json"))
	}))
	require.NoError(t, db.Close())

	store, err = Open(path, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	var profile domain.UserProfile
	found, err := store.Get(KeyUser, &profile)
	require.NoError(t, err)
	assert.False(t, found)

	// The corrupt key must be gone, so a raw read sees nothing
	var raw []byte
	require.NoError(t, store.db.View(func(tx *bolt.Tx) error {
		raw = tx.Bucket(bucketName).Get([]byte(KeyUser))
		return nil
	}))
	assert.Nil(t, raw)
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	store := openTestStore(t)
	assert.NoError(t, store.Delete(KeyNotifications))
}
