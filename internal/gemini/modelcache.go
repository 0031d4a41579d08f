package gemini

import "sync"

// ModelCache remembers which embedding model the probe selected so the
// probe runs at most once per process. Preloading a name with Set skips
// the probe entirely.
type ModelCache struct {
	mu   sync.Mutex
	name string
}

func (c *ModelCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name, c.name != ""
}

func (c *ModelCache) Set(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}
