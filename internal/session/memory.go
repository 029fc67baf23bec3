package session

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryProvider keeps browser-context storage in process. It suits tests
// and single-node development; values are lost on restart.
type MemoryProvider struct {
	mu sync.Mutex
	c  *gocache.Cache
}

// NewMemoryProvider builds a provider whose areas expire after ttl of
// inactivity. A zero ttl keeps them forever.
func NewMemoryProvider(ttl time.Duration) *MemoryProvider {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &MemoryProvider{c: gocache.New(ttl, time.Minute)}
}

// For implements Provider.
func (p *MemoryProvider) For(contextID string) Storage {
	return &memoryStorage{p: p, id: contextID}
}

type memoryStorage struct {
	p  *MemoryProvider
	id string
}

func (m *memoryStorage) area() map[string]string {
	v, ok := m.p.c.Get(m.id)
	if !ok {
		return map[string]string{}
	}
	area, _ := v.(map[string]string)
	out := make(map[string]string, len(area))
	for k, val := range area {
		out[k] = val
	}
	return out
}

func (m *memoryStorage) Load(_ context.Context, keys ...string) (map[string]string, error) {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()

	area := m.area()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := area[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *memoryStorage) Save(_ context.Context, values map[string]string) error {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()

	area := m.area()
	for k, v := range values {
		area[k] = v
	}
	m.p.c.SetDefault(m.id, area)
	return nil
}

func (m *memoryStorage) Remove(_ context.Context, keys ...string) error {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()

	area := m.area()
	for _, k := range keys {
		delete(area, k)
	}
	if len(area) == 0 {
		m.p.c.Delete(m.id)
		return nil
	}
	m.p.c.SetDefault(m.id, area)
	return nil
}
