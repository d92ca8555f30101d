package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mithrel/folio/internal/logging"
	"github.com/mithrel/folio/internal/metrics"
	"github.com/mithrel/folio/pkg/api"
	"github.com/mithrel/folio/pkg/blocks"
)

// Renderer renders documents through a Cache. Cache failures are logged
// and the document is rendered directly, so rendering itself never fails.
type Renderer struct {
	Cache   Cache
	Log     *slog.Logger
	Metrics *metrics.Metrics
}

// NewRenderer returns a Renderer. A nil cache renders every time.
func NewRenderer(c Cache, log *slog.Logger, m *metrics.Metrics) *Renderer {
	if c == nil {
		c = Nop{}
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Renderer{Cache: c, Log: log, Metrics: m}
}

// Render returns the blocks for doc. source labels the caller for metrics.
func (r *Renderer) Render(ctx context.Context, source, doc string) []blocks.Block {
	key := api.ContentHash(doc)

	ns, err := r.Cache.Get(ctx, key)
	switch {
	case err == nil:
		bs, derr := blocks.Decode(ns)
		if derr == nil {
			r.Metrics.ObserveCache("hit")
			r.Metrics.ObserveRender(source, len(bs))
			return bs
		}
		r.Log.Warn("discarding corrupt cache entry", "key", key, "error", derr)
		r.Metrics.ObserveCache("error")
	case errors.Is(err, ErrMiss):
		r.Metrics.ObserveCache("miss")
	default:
		r.Log.Warn("render cache read failed", "key", key, "error", err)
		r.Metrics.ObserveCache("error")
	}

	bs := blocks.RenderString(doc)
	r.Metrics.ObserveRender(source, len(bs))
	if err := r.Cache.Put(ctx, key, blocks.Encode(bs)); err != nil {
		r.Log.Warn("render cache write failed", "key", key, "error", err)
	}
	return bs
}
