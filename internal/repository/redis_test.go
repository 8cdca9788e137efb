package repository

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// The cache layer must be transparent when redis is unreachable: every
// operation falls through to the primary store.
func TestCachedStoreDegradesWithoutRedis(t *testing.T) {
	primary := NewMemoryStore()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}) // nothing listens here
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store := NewCachedStore(primary, rdb, time.Minute, logger)
	ctx := context.Background()

	assert.NoError(t, store.Set(ctx, "k", []byte("v")))

	val, found, err := store.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", string(val))

	assert.NoError(t, store.Remove(ctx, "k"))
	_, found, err = store.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestInitRedisUnreachable(t *testing.T) {
	_, err := InitRedis("127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
