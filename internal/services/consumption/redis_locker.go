package consumption

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/pantrymind/pantrymind/internal/config"
	"github.com/pantrymind/pantrymind/internal/util"
)

// releaseScript deletes only the keys still holding our token, so a lock that
// expired and was taken by someone else is left alone.
var releaseScript = redis.NewScript(`
for _, key in ipairs(KEYS) do
	if redis.call("GET", key) == ARGV[1] then
		redis.call("DEL", key)
	end
end
return 1
`)

// RedisLocker is an ItemLocker shared by every process using the same Redis.
// Each item is a key set with NX and a TTL, so a crashed holder cannot block
// the item forever.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	logger *slog.Logger
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg *config.LockingConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}

// NewRedisLocker creates a locker over an existing client.
func NewRedisLocker(client *redis.Client, cfg *config.LockingConfig) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: cfg.KeyPrefix,
		ttl:    cfg.TTLDuration(),
		retry:  cfg.RetryIntervalDuration(),
		logger: slog.Default().With("component", "redis_locker"),
	}
}

// Lock acquires each item key in sorted order, polling while another holder
// has it.
func (l *RedisLocker) Lock(ctx context.Context, itemIDs []string) (func(), error) {
	token := util.NewID()
	ids := lockOrder(itemIDs)
	keys := make([]string, 0, len(ids))

	release := func() { l.release(keys, token) }

	for _, id := range ids {
		key := l.prefix + id
		for {
			ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
			if err != nil {
				release()
				return nil, fmt.Errorf("locking item %s: %w", id, err)
			}
			if ok {
				keys = append(keys, key)
				break
			}

			select {
			case <-ctx.Done():
				release()
				return nil, ctx.Err()
			case <-time.After(l.retry):
			}
		}
	}

	return release, nil
}

// release deletes the keys still holding token. A failure leaves them to
// expire after the TTL, blocking other holders until then.
func (l *RedisLocker) release(keys []string, token string) {
	if len(keys) == 0 {
		return
	}
	// The caller's context may already be done; release regardless.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, keys, token).Err(); err != nil {
		l.logger.Warn("releasing item locks failed",
			"keys", keys,
			"ttl", l.ttl,
			"error", err,
		)
	}
}
