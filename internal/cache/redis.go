package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"jobscout-engine/internal/domain"
)

// Redis backs Store with a redis instance. Backend outages are logged and
// treated as permanent misses; callers never see an error.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// NewRedisWithURL accepts a redis:// URL (password, db index etc).
func NewRedisWithURL(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Redis{client: redis.NewClient(opts)}, nil
}

func (r *Redis) Close() error { return r.client.Close() }

func (r *Redis) Get(ctx context.Context, key string) ([]domain.Listing, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[cache] get error key=%s err=%v", key, err)
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		log.Printf("[cache] decode error key=%s err=%v", key, err)
		return nil, false
	}
	return e.Records, true
}

func (r *Redis) Set(ctx context.Context, key string, records []domain.Listing, ttl time.Duration) {
	raw, err := json.Marshal(entry{InsertedAt: time.Now().UTC(), Records: records})
	if err != nil {
		log.Printf("[cache] encode error key=%s err=%v", key, err)
		return
	}
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("[cache] set error key=%s err=%v", key, err)
	}
}
