package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CheckConfigValidity reports every problem in v as one joined error.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if u := strings.TrimSpace(v.GetString("db_url")); u != "" &&
		!strings.HasPrefix(u, "sqlite://") && !strings.HasPrefix(u, "mem://") {
		add("db_url must start with sqlite:// or mem://")
	}
	if _, _, err := net.SplitHostPort(v.GetString("http_addr")); err != nil {
		add("http_addr is not host:port: %v", err)
	}

	switch b := v.GetString("cache.backend"); b {
	case "none", "memory":
	case "redis":
		if strings.TrimSpace(v.GetString("cache.redis_addr")) == "" {
			add("cache.redis_addr is required for the redis backend")
		}
	default:
		add("cache.backend must be none, memory or redis, got %q", b)
	}
	if _, err := time.ParseDuration(v.GetString("cache.ttl")); err != nil {
		add("cache.ttl is not a duration: %v", err)
	}
	if v.GetInt("cache.max_entries") < 0 {
		add("cache.max_entries must not be negative")
	}

	if v.GetInt("render.width") <= 0 {
		add("render.width must be greater than 0")
	}
	if v.GetInt("render.excerpt_length") <= 0 {
		add("render.excerpt_length must be greater than 0")
	}

	if v.GetBool("tls.http3") && strings.TrimSpace(v.GetString("tls.domain")) == "" {
		add("tls.http3 requires tls.domain")
	}

	switch strings.ToLower(v.GetString("log.level")) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level must be debug, info, warn or error")
	}
	switch strings.ToLower(v.GetString("log.format")) {
	case "text", "json":
	default:
		add("log.format must be text or json")
	}

	return errors.Join(errs...)
}
