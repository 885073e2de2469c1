package cluster

import (
	"encoding/json"
	"time"
)

// Store is the key-value settings backing the per-host cluster-info cache.
type Store interface {
	GetString(key string) string
	Set(key string, value interface{})
	Save() error
}

// Cache persists fetched ClusterInfo per host with a fetch timestamp. It is
// an explicit dependency of the fetcher, not ambient state. Entries never
// mutate after construction; a refetch replaces them wholesale.
type Cache struct {
	Store Store
	TTL   time.Duration
	Key   func(host string) string

	// now is overridable in tests
	now func() time.Time
}

type cacheEntry struct {
	Info      ClusterInfo `json:"info"`
	FetchedAt time.Time   `json:"fetched_at"`
}

func (c *Cache) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// Get returns the cached ClusterInfo for host if present and fresh.
func (c *Cache) Get(host string) (*ClusterInfo, bool) {
	if c.Store == nil || c.Key == nil {
		return nil, false
	}
	raw := c.Store.GetString(c.Key(host))
	if raw == "" {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, false
	}
	if c.TTL > 0 && c.clock().Sub(entry.FetchedAt) > c.TTL {
		return nil, false
	}
	return &entry.Info, true
}

// Put stores info for host with the current timestamp and persists the store.
func (c *Cache) Put(host string, info ClusterInfo) error {
	if c.Store == nil || c.Key == nil {
		return nil
	}
	entry := cacheEntry{Info: info, FetchedAt: c.clock()}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	c.Store.Set(c.Key(host), string(raw))
	return c.Store.Save()
}
