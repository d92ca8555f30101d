package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// If SetConfigFile was provided upstream it takes precedence; these
	// paths are fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "folio"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "folio"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	// A missing file is fine; a malformed one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: FOLIO_* (highest among these sources)
	v.SetEnvPrefix("folio")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}

	// Allow comma-separated env override for cors.origins
	if s := strings.TrimSpace(os.Getenv("FOLIO_CORS_ORIGINS")); s != "" {
		v.Set("cors.origins", splitList(s))
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/folio or ~/.local/share/folio
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "folio")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "folio")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "folio", "config.toml")
}

// ResolveDBURL returns db_url, or a sqlite URL under data_dir when unset.
func ResolveDBURL(v *viper.Viper) string {
	if u := strings.TrimSpace(v.GetString("db_url")); u != "" {
		return u
	}
	return "sqlite://" + filepath.Join(expandHome(v.GetString("data_dir")), "folio.db")
}

// ResolveTLSStorage returns tls.storage_dir, defaulting to data_dir/certs.
func ResolveTLSStorage(v *viper.Viper) string {
	if d := strings.TrimSpace(v.GetString("tls.storage_dir")); d != "" {
		return expandHome(d)
	}
	return filepath.Join(expandHome(v.GetString("data_dir")), "certs")
}

func expandHome(dir string) string {
	if dir == "" {
		return defaultDataDir()
	}
	if dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[1:])
		}
	}
	return dir
}
