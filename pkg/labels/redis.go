package labels

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const labelKeyPrefix = "scout:label:"

// RedisCache shares resolved labels between replicas and across restarts.
// It is best-effort: errors are logged and treated as misses so the
// in-memory resolver keeps working without Redis.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ctx: context.Background(),
		ttl: 24 * time.Hour,
	}
}

func (c *RedisCache) Get(id string) (string, bool) {
	label, err := c.client.Get(c.ctx, labelKeyPrefix+id).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("label cache get %s: %v", id, err)
		}
		return "", false
	}
	return label, true
}

func (c *RedisCache) Set(id string, label string) {
	if err := c.client.Set(c.ctx, labelKeyPrefix+id, label, c.ttl).Err(); err != nil {
		log.Printf("label cache set %s: %v", id, err)
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
