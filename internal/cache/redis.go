package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/adhyaya/adhyaya/internal/dashboard"
	"github.com/adhyaya/adhyaya/internal/logger"
)

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisCache stores summaries as JSON strings under Prefix+"summary:"+learner.
type RedisCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(cfg RedisConfig, log *logger.Logger) (*RedisCache, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		MaxRetries:   1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{
		log:    log.With("service", "SummaryCache"),
		rdb:    rdb,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) key(learnerID string) string {
	return summaryKey(c.prefix, learnerID)
}

func summaryKey(prefix, learnerID string) string {
	return prefix + "summary:" + learnerID
}

func (c *RedisCache) Get(ctx context.Context, learnerID string) (dashboard.Summary, bool) {
	raw, err := c.rdb.Get(ctx, c.key(learnerID)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("summary cache get failed", "learner", learnerID, "error", err)
		}
		return dashboard.Summary{}, false
	}
	var s dashboard.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		c.log.Warn("bad cached summary", "learner", learnerID, "error", err)
		return dashboard.Summary{}, false
	}
	return s, true
}

func (c *RedisCache) Set(ctx context.Context, learnerID string, s dashboard.Summary, maxAge time.Duration) {
	raw, err := json.Marshal(s)
	if err != nil {
		c.log.Warn("marshal summary", "learner", learnerID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, c.key(learnerID), raw, expiry(c.ttl, maxAge)).Err(); err != nil {
		c.log.Warn("summary cache set failed", "learner", learnerID, "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, learnerID string) {
	if err := c.rdb.Del(ctx, c.key(learnerID)).Err(); err != nil {
		c.log.Warn("summary cache invalidate failed", "learner", learnerID, "error", err)
	}
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
