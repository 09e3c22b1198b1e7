package cache

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/beka-birhanu/picobot-api/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix  = "picobot"
	lockExpiry     = 30 * time.Second
	lockRetryDelay = 250 * time.Millisecond
	lockTries      = math.MaxInt32 // Waiters give up only when their context ends.
)

// RedisReportCache keeps finished reports in Redis with a TTL.
type RedisReportCache struct {
	client     *redis.Client
	locker     *redsync.Redsync
	ttl        time.Duration
	prefix     string
	lockExpiry time.Duration // Extended every third of its length while held.
}

// NewRedisReportCache initializes a RedisReportCache with the provided Redis client and TTL.
func NewRedisReportCache(client *redis.Client, ttlSeconds int, prefix string) (i.ReportCache, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if prefix == "" {
		prefix = defaultPrefix
	}

	cache := &RedisReportCache{
		client: client,
		ttl:        time.Duration(ttlSeconds) * time.Second,
		prefix:     prefix,
		lockExpiry: lockExpiry,
	}
	pool := goredis.NewPool(client)
	cache.locker = redsync.New(pool)
	return cache, nil
}

// Get returns the cached report, or nil when the key is absent.
func (c *RedisReportCache) Get(ctx context.Context, key string) (*dmn.Report, error) {
	raw, err := c.client.Get(ctx, c.reportKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report dmn.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Set stores report under key. A non-positive TTL keeps it forever.
func (c *RedisReportCache) Set(ctx context.Context, key string, report *dmn.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}

	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(ctx, c.reportKey(key), raw, ttl).Err()
}

// Lock takes a distributed lock on key so one instance evaluates it at a time.
// The lock is kept alive until the returned func is called, however long the
// evaluation takes.
func (c *RedisReportCache) Lock(ctx context.Context, key string) (func(), error) {
	mutex := c.locker.NewMutex(
		c.lockKey(key),
		redsync.WithExpiry(c.lockExpiry),
		redsync.WithTries(lockTries),
		redsync.WithRetryDelay(lockRetryDelay),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go c.keepAlive(mutex, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			_, _ = mutex.Unlock()
		})
	}, nil
}

// keepAlive extends mutex until done is closed or an extension fails.
func (c *RedisReportCache) keepAlive(mutex *redsync.Mutex, done <-chan struct{}) {
	ticker := time.NewTicker(c.lockExpiry / 3)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if ok, err := mutex.Extend(); !ok || err != nil {
				return
			}
		}
	}
}

func (c *RedisReportCache) lockKey(key string) string {
	return c.reportKey(key) + ":lock"
}

func (c *RedisReportCache) reportKey(key string) string {
	return c.prefix + ":report:" + key
}
