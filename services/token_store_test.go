package services_test

import (
	"testing"
	"time"

	"posledger-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBTokenStore_RevokeAndCheck(t *testing.T) {
	db := newTestDB(t)
	store := services.NewDBTokenStore(db)

	revoked, err := store.IsRevoked("token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke("token-a", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked("token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked("token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDBTokenStore_PurgeExpired(t *testing.T) {
	db := newTestDB(t)
	store := services.NewDBTokenStore(db)

	require.NoError(t, store.Revoke("expired", time.Now().Add(-time.Minute)))
	require.NoError(t, store.Revoke("live", time.Now().Add(time.Hour)))

	purged, err := store.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	revoked, err := store.IsRevoked("expired")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = store.IsRevoked("live")
	require.NoError(t, err)
	assert.True(t, revoked)
}
