package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/adhyaya/adhyaya/internal/revision"
)

const cacheVersion = 1

type cacheFile struct {
	Version  int                   `json:"version"`
	SyncedAt time.Time             `json:"syncedAt"`
	Items    []revision.ReviewItem `json:"items"`
}

// LocalCache is a JSON file holding the last known state of the learner's
// items. It is never authoritative: Reconcile replaces it wholesale.
type LocalCache struct {
	path string

	mu       sync.Mutex
	items    map[string]revision.ReviewItem
	syncedAt time.Time
}

// OpenLocalCache loads the cache at path. A missing or unreadable file
// yields an empty cache; a stale copy is never worth failing over.
func OpenLocalCache(path string) (*LocalCache, error) {
	c := &LocalCache{path: path, items: make(map[string]revision.ReviewItem)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	var f cacheFile
	if err := json.Unmarshal(raw, &f); err != nil || f.Version != cacheVersion {
		return c, nil
	}
	for _, it := range f.Items {
		c.items[it.ID] = it
	}
	c.syncedAt = f.SyncedAt
	return c, nil
}

// DefaultCachePath returns the cache location under the user cache dir.
func DefaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "adhyaya", "items.json"), nil
}

// Items returns the learner's cached items ordered by creation time.
func (c *LocalCache) Items(learnerID string) []revision.ReviewItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []revision.ReviewItem
	for _, it := range c.items {
		if it.LearnerID == learnerID {
			out = append(out, it.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Get returns a cached item.
func (c *LocalCache) Get(id string) (revision.ReviewItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[id]
	if !ok {
		return revision.ReviewItem{}, false
	}
	return it.Clone(), true
}

// Put inserts or replaces an item.
func (c *LocalCache) Put(item revision.ReviewItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[item.ID] = item.Clone()
}

// Remove drops an item.
func (c *LocalCache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
}

// Replace swaps the learner's items for items. Other learners are kept.
func (c *LocalCache) Replace(learnerID string, items []revision.ReviewItem, syncedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, it := range c.items {
		if it.LearnerID == learnerID {
			delete(c.items, id)
		}
	}
	for _, it := range items {
		c.items[it.ID] = it.Clone()
	}
	c.syncedAt = syncedAt
}

// SyncedAt is when the cache was last reconciled.
func (c *LocalCache) SyncedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncedAt
}

// Save writes the cache atomically.
func (c *LocalCache) Save() error {
	c.mu.Lock()
	f := cacheFile{Version: cacheVersion, SyncedAt: c.syncedAt, Items: make([]revision.ReviewItem, 0, len(c.items))}
	for _, it := range c.items {
		f.Items = append(f.Items, it)
	}
	c.mu.Unlock()

	sort.Slice(f.Items, func(i, j int) bool { return f.Items[i].ID < f.Items[j].ID })
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}
