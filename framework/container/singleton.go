package container

import "sync"

// singletonEntry serialises construction of one key. Other keys can be
// built concurrently, which lets a singleton depend on another singleton.
type singletonEntry struct {
	mu    sync.Mutex
	done  bool
	value any
}

// SingletonCache holds the one process-lifetime instance per capability.
// Entries are never evicted.
type SingletonCache struct {
	mu      sync.Mutex
	entries map[string]*singletonEntry
}

func NewSingletonCache() *SingletonCache {
	return &SingletonCache{entries: make(map[string]*singletonEntry)}
}

func (c *SingletonCache) entry(key string) *singletonEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &singletonEntry{}
		c.entries[key] = e
	}
	return e
}

// GetOrCreate returns the cached instance for key, or runs factory once to
// create it. Concurrent callers for the same key wait for the first one.
// A failing factory caches nothing, so a later call tries again.
//
// The second return value reports whether the instance came from the cache.
func (c *SingletonCache) GetOrCreate(key string, factory func() (any, error)) (any, bool, error) {
	e := c.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done {
		return e.value, true, nil
	}
	v, err := factory()
	if err != nil {
		return nil, false, err
	}
	e.value, e.done = v, true
	return v, false, nil
}

// Seed stores a pre-built instance, replacing any cached one.
func (c *SingletonCache) Seed(key string, v any) {
	e := c.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value, e.done = v, true
}

func (c *SingletonCache) Has(key string) bool {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

func (c *SingletonCache) Len() int {
	c.mu.Lock()
	entries := make([]*singletonEntry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	c.mu.Unlock()
	n := 0
	for _, e := range entries {
		e.mu.Lock()
		if e.done {
			n++
		}
		e.mu.Unlock()
	}
	return n
}
