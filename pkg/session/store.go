package session

import (
	"strings"
	"sync"
)

// Store is the interface the form layer uses to persist state across a
// redirect cycle. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, and whether it was present.
	Get(key string) (any, bool)

	// Set stores a value under key, overwriting any previous value.
	Set(key string, value any)

	// Clear removes key and every key nested under it ("a.b" also clears
	// "a.b.c"). Clearing a missing key is a no-op.
	Clear(key string)
}

// Values is the in-memory Store implementation. The zero value is not
// usable; call NewValues.
type Values struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewValues returns an empty Values store.
func NewValues() *Values {
	return &Values{data: make(map[string]any)}
}

// Get returns the value stored under key.
func (v *Values) Get(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.data[key]
	return val, ok
}

// Set stores a value under key.
func (v *Values) Set(key string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data[key] = value
}

// Clear removes key and any nested keys.
func (v *Values) Clear(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.data, key)
	prefix := key + "."
	for k := range v.data {
		if strings.HasPrefix(k, prefix) {
			delete(v.data, k)
		}
	}
}

// Len returns the number of stored keys. For monitoring/testing.
func (v *Values) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.data)
}
