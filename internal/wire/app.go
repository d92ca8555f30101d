package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mithrel/folio/internal/cache"
	"github.com/mithrel/folio/internal/config"
	"github.com/mithrel/folio/internal/db"
	"github.com/mithrel/folio/internal/keys"
	"github.com/mithrel/folio/internal/logging"
	"github.com/mithrel/folio/internal/metrics"
	"github.com/mithrel/folio/internal/server"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *slog.Logger
	Store    db.Store
	Cache    cache.Cache
	Renderer *cache.Renderer
	Metrics  *metrics.Metrics

	closers []io.Closer
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logger := logging.New(v.GetString("log.level"), v.GetString("log.format"))
	m := metrics.New()

	app := &App{Cfg: v, Log: logger, Metrics: m}

	if err := resolveToken(v, &keys.KeyringStore{}, logger); err != nil {
		return nil, err
	}

	store, closer, err := db.Open(ctx, config.ResolveDBURL(v))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	app.Store = store
	app.closers = append(app.closers, closer)

	if v.GetBool("seed_demo") {
		n, err := db.Seed(ctx, store)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("seed demo posts: %w", err)
		}
		if n > 0 {
			logger.Info("seeded demo posts", "count", n)
		}
	}

	c, err := buildCache(v)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if cl, ok := c.(io.Closer); ok {
		app.closers = append(app.closers, cl)
	}
	app.Cache = c
	app.Renderer = cache.NewRenderer(c, logger, m)
	return app, nil
}

// resolveToken fills auth.token from the keyring when asked to.
func resolveToken(v *viper.Viper, ks keys.Store, log *slog.Logger) error {
	if strings.TrimSpace(v.GetString("auth.token")) != "" || !v.GetBool("auth.keyring") {
		return nil
	}
	tok, err := ks.Get(keys.TokenID)
	switch {
	case errors.Is(err, keys.ErrKeyNotFound):
		log.Warn("auth.keyring is set but the keyring holds no token")
		return nil
	case err != nil:
		return fmt.Errorf("read token from keyring: %w", err)
	}
	v.Set("auth.token", tok)
	return nil
}

func buildCache(v *viper.Viper) (cache.Cache, error) {
	switch backend := strings.ToLower(strings.TrimSpace(v.GetString("cache.backend"))); backend {
	case "", "none":
		return cache.Nop{}, nil
	case "memory":
		return cache.NewMemory(v.GetInt("cache.max_entries")), nil
	case "redis":
		var opts []cache.Option
		if s := strings.TrimSpace(v.GetString("cache.ttl")); s != "" {
			ttl, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("cache.ttl: %w", err)
			}
			opts = append(opts, cache.WithTTL(ttl))
		}
		return cache.NewRedis(v.GetString("cache.redis_addr"), opts...), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// Server returns an HTTP server over the app's services.
func (a *App) Server() *server.Server {
	return server.New(a.Cfg, a.Store, a.Renderer, a.Metrics, a.Log)
}

// Close releases the store and cache connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
