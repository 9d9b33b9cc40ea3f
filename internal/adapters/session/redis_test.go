package session

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/infrastructure/config"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_SaveGetDelete(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()
	id := NewID()

	require.NoError(t, store.Save(ctx, id, &entities.Session{
		Scores:            entities.Scores{"texte_a_trous": 3},
		AnkiAuthenticated: true,
	}))

	raw, err := mr.Get("revijouer:session:" + id)
	require.NoError(t, err)
	var stored entities.Session
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.True(t, stored.AnkiAuthenticated)
	assert.Equal(t, 3, stored.Scores["texte_a_trous"])
	assert.Equal(t, time.Hour, mr.TTL("revijouer:session:"+id))

	s, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, s.AnkiAuthenticated)
	assert.Equal(t, 3, s.Scores["texte_a_trous"])

	require.NoError(t, store.Delete(ctx, id))
	assert.False(t, mr.Exists("revijouer:session:"+id))

	s, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, s.Scores)
	assert.False(t, s.AnkiAuthenticated)
}

func TestRedisStore_GetUnknownReturnsEmpty(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)

	s, err := store.Get(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, s.Scores)
	assert.False(t, s.AnkiAuthenticated)
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", &entities.Session{AnkiAuthenticated: true}))

	mr.FastForward(2 * time.Minute)

	s, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, s.AnkiAuthenticated)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	require.NoError(t, mr.Set("revijouer:session:broken", "{not json"))

	_, err := store.Get(context.Background(), "broken")
	assert.Error(t, err)
}

func TestRedisStore_PingAndClose(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(ctx))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = NewRedisClient(context.Background(), config.RedisConfig{Host: host, Port: port})
	assert.Error(t, err)
}
