package redisstore_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecosystem-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/ecosystem-api/pkg/config"
)

func setup(t *testing.T) (*redisstore.RevocationStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisstore.NewRevocationStore(client), mr
}

func TestRevocationStore_RevokeYExpira(t *testing.T) {
	ctx := context.Background()
	store, mr := setup(t)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(10*time.Minute)))
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(11 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationStore_TokenYaExpiradoNoSeGuarda(t *testing.T) {
	ctx := context.Background()
	store, mr := setup(t)

	require.NoError(t, store.Revoke(ctx, "viejo", time.Now().Add(-time.Second)))
	assert.Empty(t, mr.Keys())
}

func TestRevocationStore_PurgeEsNoop(t *testing.T) {
	store, _ := setup(t)
	n, err := store.PurgeExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redisstore.NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
