package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

// RuleCache holds a short-lived snapshot of the active compatibility rules
// so hot validate/price traffic does not hit the rule table per request.
// Each evaluation still sees a single point-in-time snapshot; the TTL only
// bounds how stale that snapshot may be.
type RuleCache interface {
	Get(ctx context.Context) ([]*types.CompatibilityRule, error)
	Set(ctx context.Context, rules []*types.CompatibilityRule) error
	Invalidate(ctx context.Context) error
	Close() error
}

type ruleCache struct {
	log *logger.Logger
	rdb *goredis.Client
	key string
	ttl time.Duration
}

// NewRuleCache connects using REDIS_ADDR. Callers treat a nil cache as
// "no caching"; construction fails fast when the address is missing or the
// server does not answer a ping.
func NewRuleCache(log *logger.Logger) (RuleCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := strings.TrimSpace(os.Getenv("REDIS_RULE_CACHE_KEY"))
	if key == "" {
		key = "builder:active_rules"
	}
	ttlSeconds := 30
	if raw := strings.TrimSpace(os.Getenv("REDIS_RULE_CACHE_TTL")); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &ttlSeconds); err != nil || ttlSeconds <= 0 {
			ttlSeconds = 30
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ruleCache{
		log: log.With("service", "RedisRuleCache"),
		rdb: rdb,
		key: key,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// Get returns the cached snapshot, or (nil, nil) on a miss.
func (c *ruleCache) Get(ctx context.Context) ([]*types.CompatibilityRule, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var rules []*types.CompatibilityRule
	if err := json.Unmarshal(raw, &rules); err != nil {
		c.log.Warn("Corrupt rule cache entry, dropping it", "error", err)
		_ = c.rdb.Del(ctx, c.key).Err()
		return nil, nil
	}
	return rules, nil
}

func (c *ruleCache) Set(ctx context.Context, rules []*types.CompatibilityRule) error {
	raw, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *ruleCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *ruleCache) Close() error {
	return c.rdb.Close()
}
