package cache

import (
	"context"
	"sync"

	"github.com/mithrel/folio/pkg/blocks"
)

// Memory is a process-local cache holding at most max entries. When full,
// the oldest inserted entry is evicted.
type Memory struct {
	mu    sync.Mutex
	max   int
	items map[string][]blocks.Node
	order []string
}

// NewMemory returns a Memory cache. max <= 0 means unbounded.
func NewMemory(max int) *Memory {
	return &Memory{max: max, items: make(map[string][]blocks.Node)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]blocks.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.items[key]
	if !ok {
		return nil, ErrMiss
	}
	return cloneNodes(ns), nil
}

func (m *Memory) Put(ctx context.Context, key string, nodes []blocks.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; !ok {
		m.order = append(m.order, key)
	}
	m.items[key] = cloneNodes(nodes)
	for m.max > 0 && len(m.order) > m.max {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.items, oldest)
	}
	return nil
}

// Len reports the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func cloneNodes(ns []blocks.Node) []blocks.Node {
	out := make([]blocks.Node, len(ns))
	for i, n := range ns {
		n.Items = append([]string(nil), n.Items...)
		out[i] = n
	}
	return out
}
