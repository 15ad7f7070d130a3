// Package factcache stores extracted FactSets in a key-value store, keyed by
// the instance content, the archive schema it resolved to and the archive
// version.
package factcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nsexbrl/internal/db"
	"github.com/kailas-cloud/nsexbrl/internal/domain"
)

type store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Evict(ctx context.Context, keys ...string) (int64, error)
}

// Cache is a TTL-bounded FactSet cache.
type Cache struct {
	store   store
	ttl     time.Duration
	version string
	logger  *zap.Logger
}

// New creates a cache. A non-positive ttl keeps entries until evicted by the server.
func New(s store, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: s, ttl: ttl, logger: logger}
}

// WithVersion scopes every key to an archive version, so entries written
// against an older archive are never served after it is replaced.
func (c *Cache) WithVersion(v string) *Cache {
	c.version = v
	return c
}

// Get returns the cached FactSet. Missing entries are misses; unreadable
// entries are evicted and reported as misses.
func (c *Cache) Get(ctx context.Context, content []byte, schemaPath string) (domain.FactSet, bool, error) {
	key := c.key(content, schemaPath)
	data, err := c.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.FactSet{}, false, nil
		}
		return domain.FactSet{}, false, fmt.Errorf("fact cache lookup: %w", err)
	}

	var fs domain.FactSet
	if err := json.Unmarshal(data, &fs); err != nil {
		c.logger.Warn("Evicting unreadable cache entry", zap.String("key", key), zap.Error(err))
		if _, eerr := c.store.Evict(ctx, key); eerr != nil {
			c.logger.Warn("Failed to evict cache entry", zap.String("key", key), zap.Error(eerr))
		}
		return domain.FactSet{}, false, nil
	}
	if fs.Empty() {
		return domain.FactSet{}, false, nil
	}
	return fs, true, nil
}

// Put stores a FactSet. Empty sets are never cached.
func (c *Cache) Put(ctx context.Context, content []byte, schemaPath string, fs domain.FactSet) error {
	if fs.Empty() {
		return nil
	}
	data, err := json.Marshal(fs)
	if err != nil {
		return fmt.Errorf("marshal facts: %w", err)
	}
	key := c.key(content, schemaPath)
	if err := c.store.Save(ctx, key, data, c.ttl); err != nil {
		return fmt.Errorf("fact cache store: %w", err)
	}
	return nil
}

// key stamps the archive version with the entry schema's size and mtime, so
// an in-place edit of the schema itself invalidates entries without a restart.
func (c *Cache) key(content []byte, schemaPath string) string {
	v := c.version
	if fi, err := os.Stat(schemaPath); err == nil {
		v += fmt.Sprintf("@%d.%d", fi.Size(), fi.ModTime().UnixNano())
	}
	return Key(content, schemaPath, v)
}

// Key derives the cache key from the instance bytes, the resolved schema path
// and an archive version.
func Key(content []byte, schemaPath, version string) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte{0})
	h.Write([]byte(schemaPath))
	h.Write([]byte{0})
	h.Write([]byte(version))
	return domain.KeyPrefix + "facts:" + hex.EncodeToString(h.Sum(nil))
}
