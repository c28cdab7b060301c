package component

import "sync"

// Context is the mutable key/value store scoped to one scenario run.
// It is shared by reference across all components executed within that run
// and handed back to the caller when the run completes. It is not part of
// the trace.
type Context struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewContext creates an empty run context.
func NewContext() *Context {
	return &Context{values: make(map[string]any)}
}

// Get returns the value stored under key.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Set stores a value under key, replacing any previous value.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Delete removes the value stored under key.
func (c *Context) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

// Values returns a snapshot copy of the stored values.
func (c *Context) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}
