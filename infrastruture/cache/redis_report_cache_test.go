package cache

import (
	"context"
	"os"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisReportCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	require.NoError(t, client.Ping(ctx).Err())

	c, err := NewRedisReportCache(client, 60, "picobot-test")
	require.NoError(t, err)

	t.Run("Miss returns nil", func(t *testing.T) {
		got, err := c.Get(ctx, uuid.NewString())
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Set then get", func(t *testing.T) {
		report := dmn.NewReport(dmn.ReportConfig{Name: "x", MapKey: "room", Rules: "0 **** -> N 0\n", MoveBudget: 5})
		key := report.CacheKey()
		require.NoError(t, c.Set(ctx, key, report))
		defer client.Del(ctx, "picobot-test:report:"+key)

		got, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, report.ID, got.ID)
		assert.Equal(t, report.RuleHash, got.RuleHash)
	})

	t.Run("Lock and unlock", func(t *testing.T) {
		unlock, err := c.Lock(ctx, "lock-"+uuid.NewString())
		require.NoError(t, err)
		unlock()
		unlock()
	})

	t.Run("Held lock outlives its expiry", func(t *testing.T) {
		short := c.(*RedisReportCache)
		short.lockExpiry = time.Second
		defer func() { short.lockExpiry = lockExpiry }()

		key := "lock-" + uuid.NewString()
		unlock, err := short.Lock(ctx, key)
		require.NoError(t, err)

		time.Sleep(3 * time.Second)
		rival := short.locker.NewMutex(short.lockKey(key), redsync.WithExpiry(time.Second))
		assert.Error(t, rival.TryLockContext(ctx), "lock was released while held")

		unlock()
		assert.NoError(t, rival.TryLockContext(ctx))
		_, _ = rival.Unlock()
	})
}

func TestNewRedisReportCache(t *testing.T) {
	_, err := NewRedisReportCache(nil, 10, "")
	assert.Error(t, err)
}
