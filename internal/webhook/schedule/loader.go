package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/offsoc/hyperswitch/internal/webhook/domain"
)

// ConfigKey is the well-known config entry holding the retry schedule.
const ConfigKey = "pt_mapping_outgoing_webhooks"

const cacheKey = "config:" + ConfigKey

// ConfigStore reads raw config values. Missing keys surface as
// domain.ErrNotFound.
type ConfigStore interface {
	FindConfigByKey(ctx context.Context, key string) (string, error)
}

// Cache is a small read-through cache in front of the config store.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache adapts a redis client to the Cache contract.
type RedisCache struct {
	RDB *redis.Client
}

func (c RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.RDB.Get(ctx, key).Result()
}

func (c RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.RDB.Set(ctx, key, value, ttl).Err()
}

// Loader resolves the active retry mapping: cache first, then the config
// store, then the built-in default when nothing is stored or the stored
// value does not parse.
type Loader struct {
	log   *slog.Logger
	store ConfigStore
	cache Cache
	ttl   time.Duration
}

func NewLoader(log *slog.Logger, store ConfigStore, cache Cache, ttl time.Duration) *Loader {
	return &Loader{log: log, store: store, cache: cache, ttl: ttl}
}

// Load returns the retry mapping to use. It never fails: config problems are
// logged and the built-in default applies.
func (l *Loader) Load(ctx context.Context) RetryMapping {
	if l.cache != nil {
		if raw, err := l.cache.Get(ctx, cacheKey); err == nil {
			var mapping RetryMapping
			if err := json.Unmarshal([]byte(raw), &mapping); err == nil {
				return mapping
			}
			l.log.Warn("ignoring unparseable cached retry mapping", "key", cacheKey)
		}
	}

	raw, err := l.store.FindConfigByKey(ctx, ConfigKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.log.Debug("webhook retry config not found, using default", "key", ConfigKey)
		} else {
			l.log.Error("failed to read webhook retry config", "key", ConfigKey, "err", err)
		}
		return Default()
	}

	var mapping RetryMapping
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		l.log.Error("failed to parse webhook retry config", "key", ConfigKey, "err", err)
		return Default()
	}
	l.log.Debug("using stored webhook retry config", "key", ConfigKey)

	if l.cache != nil {
		if err := l.cache.Set(ctx, cacheKey, raw, l.ttl); err != nil {
			l.log.Warn("failed to cache retry mapping", "err", err)
		}
	}
	return mapping
}

// NextScheduleTime resolves when retry attempt number `attempt` for the
// merchant should run. The second return is false once the retry budget is
// exhausted.
func (l *Loader) NextScheduleTime(ctx context.Context, merchantID string, attempt int) (time.Time, bool) {
	mapping, custom := l.Load(ctx).For(merchantID)
	if custom {
		l.log.Debug("using custom merchant retry mapping", "merchant_id", merchantID)
	} else {
		l.log.Debug("using default retry mapping", "merchant_id", merchantID)
	}

	delay, ok := Resolve(mapping, attempt)
	if !ok {
		return time.Time{}, false
	}
	return time.Now().UTC().Add(delay), true
}
