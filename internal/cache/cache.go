// Package cache keeps previously retrieved translations in local storage,
// addressed by the fingerprint of their cache key.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/valpere/mstranslate/internal/fingerprint"
	"github.com/valpere/mstranslate/internal/logging"
	"github.com/valpere/mstranslate/internal/metrics"
)

// ErrUnavailable marks a local storage failure. The cache never returns it;
// it only appears in logs, since callers fall back to the network.
var ErrUnavailable = errors.New("local storage unavailable")

// Backend is the persistent key-value store interface.
type Backend interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
}

// Cache maps cache keys to translations through their fingerprints. Storage
// failures never reach the caller: a failed read is a miss and a failed write
// is dropped.
type Cache struct {
	backend Backend
	logger  *logrus.Logger
}

// New returns a cache over backend. A nil backend yields a cache that is
// permanently unavailable: every Get misses and every Put is dropped.
func New(backend Backend, logger *logrus.Logger) *Cache {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Cache{backend: backend, logger: logger}
}

// Get returns the translation stored for cacheKey.
func (c *Cache) Get(ctx context.Context, cacheKey string) (string, bool) {
	key := fingerprint.Key(cacheKey)
	log := c.logger.WithFields(logrus.Fields{"cache_key": cacheKey, "fingerprint": key})

	if c.backend == nil {
		metrics.RecordCacheLookup(metrics.CacheUnavailable)
		log.WithError(ErrUnavailable).Debug("Cache lookup skipped")
		return "", false
	}

	value, found, err := c.backend.GetItem(ctx, key)
	if found && err != nil {
		log.WithError(err).Warn("Cache hit bookkeeping failed")
		err = nil
	}
	if err != nil {
		metrics.RecordCacheLookup(metrics.CacheUnavailable)
		log.WithError(fmt.Errorf("%w: %v", ErrUnavailable, err)).Warn("Cache lookup failed, falling back to network")
		return "", false
	}
	if !found {
		metrics.RecordCacheLookup(metrics.CacheMiss)
		log.Debug("Cache miss")
		return "", false
	}

	metrics.RecordCacheLookup(metrics.CacheHit)
	log.Debug("Cache hit")
	return value, true
}

// Put stores value for cacheKey, overwriting any previous entry. Failures are
// logged and otherwise ignored.
func (c *Cache) Put(ctx context.Context, cacheKey, value string) {
	key := fingerprint.Key(cacheKey)
	log := c.logger.WithFields(logrus.Fields{"cache_key": cacheKey, "fingerprint": key})

	if c.backend == nil {
		log.WithError(ErrUnavailable).Debug("Cache write skipped")
		return
	}

	err := c.backend.SetItem(ctx, key, value)
	metrics.RecordCacheWrite(err)
	if err != nil {
		log.WithError(fmt.Errorf("%w: %v", ErrUnavailable, err)).Warn("Cache write failed")
		return
	}
	log.Debug("Cached translation")
}
