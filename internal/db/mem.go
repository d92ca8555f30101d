package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mithrel/folio/pkg/api"
)

type memStore struct {
	mu     sync.RWMutex
	bySlug map[string]api.Post
}

// NewMemStore returns an empty process-local Store.
func NewMemStore() Store {
	return &memStore{bySlug: make(map[string]api.Post)}
}

func (m *memStore) CreatePost(ctx context.Context, p api.Post) (api.Post, error) {
	if p.Slug == "" {
		return api.Post{}, ErrConflict
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bySlug[p.Slug]; ok {
		return api.Post{}, ErrConflict
	}
	stamp(&p)
	p.Version = 1
	m.bySlug[p.Slug] = p
	return p, nil
}

func (m *memStore) GetPost(ctx context.Context, slug string) (api.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.bySlug[slug]
	if !ok {
		return api.Post{}, ErrNotFound
	}
	return p, nil
}

func (m *memStore) UpdatePostCAS(ctx context.Context, p api.Post, ifVersion int64) (api.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.bySlug[p.Slug]
	if !ok {
		return api.Post{}, ErrNotFound
	}
	if cur.Version != ifVersion {
		return api.Post{}, ErrConflict
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	p.Version = cur.Version + 1
	m.bySlug[p.Slug] = p
	return p, nil
}

func (m *memStore) DeletePost(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bySlug[slug]; !ok {
		return ErrNotFound
	}
	delete(m.bySlug, slug)
	return nil
}

func (m *memStore) ListPosts(ctx context.Context, q api.ListQuery) ([]api.Post, api.Page, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	cur, hasCursor := parseCursorToken(q.Cursor)

	m.mu.RLock()
	all := make([]api.Post, 0, len(m.bySlug))
	for _, p := range m.bySlug {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if (q.Since != "" && p.Date < q.Since) || (q.Until != "" && p.Date > q.Until) {
			continue
		}
		if hasCursor && !cur.comesAfter(p) {
			continue
		}
		all = append(all, p)
	}
	m.mu.RUnlock()

	sortPosts(all)
	hasMore := len(all) > limit
	if hasMore {
		all = all[:limit]
	}
	return all, buildPage(all, hasMore), nil
}

func (m *memStore) Categories(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range m.bySlug {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

// stamp fills missing timestamps on a new post.
func stamp(p *api.Post) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
}
