package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultsViper() *viper.Viper {
	v := viper.New()
	applyDefaults(v)
	return v
}

func TestCheckConfigValidityValid(t *testing.T) {
	v := defaultsViper()
	assert.NoError(t, CheckConfigValidity(v))
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := defaultsViper()
	v.Set("data_dir", "")
	v.Set("db_url", "postgres://x")
	v.Set("http_addr", "nope")
	v.Set("cache.backend", "memcached")
	v.Set("cache.ttl", "soon")
	v.Set("render.width", 0)
	v.Set("render.excerpt_length", 0)
	v.Set("tls.http3", true)
	v.Set("log.level", "loud")
	v.Set("log.format", "xml")

	err := CheckConfigValidity(v)
	require.Error(t, err)

	msg := err.Error()
	expected := []string{
		"data_dir is required",
		"db_url must start with sqlite:// or mem://",
		"http_addr is not host:port",
		"cache.backend must be none, memory or redis",
		"cache.ttl is not a duration",
		"render.width must be greater than 0",
		"render.excerpt_length must be greater than 0",
		"tls.http3 requires tls.domain",
		"log.level must be",
		"log.format must be text or json",
	}
	for _, want := range expected {
		assert.Contains(t, msg, want)
	}
}

func TestRedisBackendNeedsAddr(t *testing.T) {
	v := defaultsViper()
	v.Set("cache.backend", "redis")
	v.Set("cache.redis_addr", "")
	assert.ErrorContains(t, CheckConfigValidity(v), "cache.redis_addr is required")
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr = \":9000\"\n[render]\nwidth = 100\n"), 0o600))
	t.Setenv("FOLIO_RENDER_WIDTH", "120")
	t.Setenv("FOLIO_CORS_ORIGINS", "https://a.example, https://b.example")

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, Load(context.Background(), v))

	assert.Equal(t, ":9000", v.GetString("http_addr"))
	assert.Equal(t, 120, v.GetInt("render.width"))
	assert.Equal(t, "memory", v.GetString("cache.backend"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, v.GetStringSlice("cors.origins"))
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr = \n"), 0o600))
	v := viper.New()
	v.SetConfigFile(path)
	assert.Error(t, Load(context.Background(), v))
}

func TestResolveDBURL(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", "/srv/folio")
	assert.Equal(t, "sqlite:///srv/folio/folio.db", ResolveDBURL(v))
	v.Set("db_url", "mem://")
	assert.Equal(t, "mem://", ResolveDBURL(v))
	assert.Equal(t, "/srv/folio/certs", ResolveTLSStorage(v))
}

func TestRenderDefaultTOMLIsLoadable(t *testing.T) {
	out := RenderDefaultTOML()
	assert.True(t, strings.HasPrefix(out, "# Folio configuration"))
	assert.Less(t, strings.Index(out, "seed_demo"), strings.Index(out, "[auth]"))

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)))
	assert.Equal(t, "memory", v.GetString("cache.backend"))
	assert.Equal(t, 80, v.GetInt("render.width"))
	assert.Equal(t, DefaultCORSOrigins, v.GetStringSlice("cors.origins"))
}

func TestUpdateTOML(t *testing.T) {
	existing := "# mine\nhttp_addr = \":9000\"\nlegacy = 1\n[render]\nwidth = 100\n"
	out, changed := UpdateTOML(existing)
	require.True(t, changed)
	assert.Contains(t, out, "http_addr = \":9000\"")
	assert.Contains(t, out, "# OUTDATED: option removed from config schema\n# legacy = 1")
	assert.Contains(t, out, "# Added by config update")
	assert.Contains(t, out, "excerpt_length = 200")
	assert.NotContains(t, out, "width = 80")

	again, changed := UpdateTOML(out)
	assert.False(t, changed)
	assert.Equal(t, out, again)
}
