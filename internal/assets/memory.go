package assets

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Provider backed by a set of known paths.
type Memory struct {
	mu      sync.RWMutex
	handles map[string]Handle
}

// NewMemory creates a Memory provider that knows the given paths.
func NewMemory(paths ...string) *Memory {
	m := &Memory{handles: make(map[string]Handle)}
	for _, p := range paths {
		m.Add(p)
	}
	return m
}

// Add registers path and returns its handle. Adding a known path returns
// the existing handle.
func (m *Memory) Add(path string) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.handles[path]; ok {
		return h
	}
	h := Handle{ID: fmt.Sprintf("mem-%d", len(m.handles)+1), Path: path, Location: "memory:" + path}
	m.handles[path] = h
	return h
}

// Resolve implements Provider.
func (m *Memory) Resolve(ctx context.Context, path string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.handles[path]
	if !ok {
		return Handle{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return h, nil
}
