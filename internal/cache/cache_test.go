package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/folio/internal/metrics"
	"github.com/mithrel/folio/pkg/api"
	"github.com/mithrel/folio/pkg/blocks"
)

func runCacheContract(t *testing.T, c Cache) {
	ctx := context.Background()
	_, err := c.Get(ctx, "absent")
	assert.ErrorIs(t, err, ErrMiss)

	nodes := blocks.Encode(blocks.RenderString("# T\n- a\n- b"))
	require.NoError(t, c.Put(ctx, "k", nodes))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, nodes, got)
}

func TestMemoryContract(t *testing.T) {
	runCacheContract(t, NewMemory(0))
}

func TestMemoryEvictsOldest(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)
	require.NoError(t, m.Put(ctx, "a", nil))
	require.NoError(t, m.Put(ctx, "b", nil))
	require.NoError(t, m.Put(ctx, "c", nil))
	assert.Equal(t, 2, m.Len())
	_, err := m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	require.NoError(t, m.Put(ctx, "k", []blocks.Node{{Type: "list", Items: []string{"x"}}}))
	got, _ := m.Get(ctx, "k")
	got[0].Items[0] = "mutated"
	again, _ := m.Get(ctx, "k")
	assert.Equal(t, "x", again[0].Items[0])
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisContract(t *testing.T) {
	_, client := newMiniredis(t)
	runCacheContract(t, NewFromClient(client))
}

func TestRedisPrefixAndTTL(t *testing.T) {
	mr, client := newMiniredis(t)
	r := NewFromClient(client, WithPrefix("test:"), WithTTL(time.Minute))
	require.NoError(t, r.Put(context.Background(), "k", []blocks.Node{{Type: "empty"}}))
	assert.True(t, mr.Exists("test:k"))
	assert.Equal(t, time.Minute, mr.TTL("test:k"))

	mr.FastForward(2 * time.Minute)
	_, err := r.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrMiss)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]blocks.Node, error) {
	return nil, errors.New("down")
}
func (failingCache) Put(context.Context, string, []blocks.Node) error { return errors.New("down") }

func TestRendererCachesByContentHash(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(0)
	m := metrics.New()
	r := NewRenderer(mem, nil, m)

	doc := "# Title\n> quote"
	first := r.Render(ctx, "test", doc)
	second := r.Render(ctx, "test", doc)
	assert.Equal(t, first, second)
	assert.Equal(t, blocks.RenderString(doc), second)

	_, err := mem.Get(ctx, api.ContentHash(doc))
	assert.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Renders.WithLabelValues("test")))
}

func TestRendererFallsBackWhenCacheFails(t *testing.T) {
	r := NewRenderer(failingCache{}, nil, nil)
	got := r.Render(context.Background(), "test", "")
	assert.Equal(t, []blocks.Block{blocks.Empty{}}, got)
}

func TestRendererDropsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(0)
	doc := "plain"
	require.NoError(t, mem.Put(ctx, api.ContentHash(doc), []blocks.Node{{Type: "bogus"}}))
	got := NewRenderer(mem, nil, nil).Render(ctx, "test", doc)
	assert.Equal(t, []blocks.Block{blocks.Paragraph{Text: "plain"}}, got)
}
