package wire

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/mithrel/folio/internal/cache"
	"github.com/mithrel/folio/internal/keys"
	"github.com/mithrel/folio/pkg/api"
)

func testConfig() *viper.Viper {
	v := viper.New()
	v.Set("db_url", "mem://")
	v.Set("seed_demo", true)
	v.Set("cache.backend", "memory")
	v.Set("cache.max_entries", 8)
	v.Set("log.level", "error")
	return v
}

func TestBuildAppSeedsAndRenders(t *testing.T) {
	ctx := context.Background()
	app, err := BuildApp(ctx, testConfig())
	require.NoError(t, err)
	defer app.Close()

	posts, _, err := app.Store.ListPosts(ctx, api.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	mem, ok := app.Cache.(*cache.Memory)
	require.True(t, ok)
	app.Renderer.Render(ctx, "test", posts[0].Content)
	assert.Equal(t, 1, mem.Len())
	assert.NotNil(t, app.Server())
}

func TestBuildAppWithoutSeed(t *testing.T) {
	v := testConfig()
	v.Set("seed_demo", false)
	v.Set("cache.backend", "none")
	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)
	defer app.Close()

	posts, _, err := app.Store.ListPosts(context.Background(), api.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.IsType(t, cache.Nop{}, app.Cache)
}

func TestBuildAppRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	v := testConfig()
	v.Set("cache.backend", "redis")
	v.Set("cache.redis_addr", mr.Addr())
	v.Set("cache.ttl", "1h")

	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)

	app.Renderer.Render(context.Background(), "test", "# cached")
	assert.True(t, mr.Exists("folio:blocks:"+api.ContentHash("# cached")))
	assert.NoError(t, app.Close())
}

func TestBuildAppRejectsBadCache(t *testing.T) {
	v := testConfig()
	v.Set("cache.backend", "memcached")
	_, err := BuildApp(context.Background(), v)
	assert.ErrorContains(t, err, "unknown cache backend")

	v = testConfig()
	v.Set("cache.backend", "redis")
	v.Set("cache.ttl", "soon")
	_, err = BuildApp(context.Background(), v)
	assert.ErrorContains(t, err, "cache.ttl")
}

func TestBuildAppRejectsBadDB(t *testing.T) {
	v := testConfig()
	v.Set("db_url", "postgres://nope")
	_, err := BuildApp(context.Background(), v)
	assert.Error(t, err)
}

func TestBuildAppTokenFromKeyring(t *testing.T) {
	keyring.MockInit()
	ks := &keys.KeyringStore{}

	v := testConfig()
	v.Set("auth.keyring", true)
	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)
	assert.Empty(t, app.Cfg.GetString("auth.token"))
	require.NoError(t, app.Close())

	require.NoError(t, ks.Put(keys.TokenID, "from-keyring"))
	defer ks.Delete(keys.TokenID)

	v = testConfig()
	v.Set("auth.keyring", true)
	app, err = BuildApp(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", app.Cfg.GetString("auth.token"))
	require.NoError(t, app.Close())

	v = testConfig()
	v.Set("auth.keyring", true)
	v.Set("auth.token", "explicit")
	app, err = BuildApp(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "explicit", app.Cfg.GetString("auth.token"))
	require.NoError(t, app.Close())
}
