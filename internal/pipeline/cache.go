package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cordex/domain/snapshot"
	"cordex/internal/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Runner builds a snapshot for one file version
type Runner interface {
	Run(ctx context.Context, source snapshot.Source) (*snapshot.Snapshot, error)
}

// Cache keeps one snapshot per source file and reuses it while the file's size and
// modification time are unchanged. Concurrent misses for a path share one load.
type Cache struct {
	runner  Runner
	metrics *Metrics
	logger  *zap.Logger

	mu      sync.RWMutex
	entries map[string]*snapshot.Snapshot
	group   singleflight.Group
}

// NewCache creates an empty cache in front of runner. metrics and logger may be nil.
func NewCache(runner Runner, metrics *Metrics, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Cache{
		runner:  runner,
		metrics: metrics,
		logger:  logger.Named("cache"),
		entries: make(map[string]*snapshot.Snapshot),
	}
}

// Fingerprint stats path and returns its identity without a digest
func Fingerprint(path string) (snapshot.Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return snapshot.Source{}, errors.DataSource(path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return snapshot.Source{}, errors.DataSource(path, err)
	}
	if info.IsDir() {
		return snapshot.Source{}, errors.DataSource(path, errors.InvalidInput("path is a directory"))
	}
	return snapshot.Source{Path: abs, Size: info.Size(), ModTime: info.ModTime()}, nil
}

func sameVersion(a, b snapshot.Source) bool {
	return a.Path == b.Path && a.Size == b.Size && a.ModTime.Equal(b.ModTime)
}

// versionKey identifies a file version by the same fields sameVersion compares
func versionKey(s snapshot.Source) string {
	return fmt.Sprintf("%s@%d@%d", s.Path, s.Size, s.ModTime.UnixNano())
}

// Snapshot returns the analysis of path, loading it only when the file changed
func (c *Cache) Snapshot(ctx context.Context, path string) (*snapshot.Snapshot, error) {
	source, err := Fingerprint(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	cached, ok := c.entries[source.Path]
	c.mu.RUnlock()
	if ok && sameVersion(cached.Source, source) {
		c.metrics.CacheHits.Inc()
		return cached, nil
	}

	c.metrics.CacheMisses.Inc()
	v, err, shared := c.group.Do(versionKey(source), func() (interface{}, error) {
		snap, err := c.runner.Run(ctx, source)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[source.Path] = snap
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		c.logger.Warn("snapshot load failed", zap.String("path", source.Path), zap.Error(err))
		return nil, err
	}
	if !shared {
		c.logger.Info("snapshot loaded",
			zap.String("path", source.Path),
			zap.Int64("size", source.Size),
			zap.String("run_id", v.(*snapshot.Snapshot).RunID))
	}
	return v.(*snapshot.Snapshot), nil
}

// Invalidate drops the cached snapshot of path
func (c *Cache) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	c.mu.Lock()
	_, ok := c.entries[abs]
	delete(c.entries, abs)
	c.mu.Unlock()
	if ok {
		c.metrics.CacheInvalidated.Inc()
		c.logger.Debug("snapshot invalidated", zap.String("path", abs))
	}
}

// Len returns the number of cached snapshots
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Source binds a cache to one path, serving as the snapshot source of the presentation layers
type Source struct {
	cache *Cache
	path  string
}

// NewSource creates a SnapshotSource for path
func NewSource(cache *Cache, path string) *Source {
	return &Source{cache: cache, path: path}
}

// Current returns the snapshot of the bound path
func (s *Source) Current(ctx context.Context) (*snapshot.Snapshot, error) {
	return s.cache.Snapshot(ctx, s.path)
}

// Path returns the bound path
func (s *Source) Path() string { return s.path }
