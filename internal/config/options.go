package config

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// DefaultCORSOrigins are the browser origins allowed when cors.origins is unset.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:3001",
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		// Core paths and storage
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/folio.db"},
		{Key: "db_url", Default: "", Comment: "Post store URL (sqlite://path or mem://); empty uses data_dir"},
		{Key: "seed_demo", Default: true, Comment: "Insert the demo posts when the store is empty"},

		{Key: "http_addr", Default: ":8000", Comment: "HTTP listen address for serve"},
		{Key: "auth.token", Default: "", Comment: "Bearer token for write endpoints; empty disables writes"},
		{Key: "auth.keyring", Default: false, Comment: "Read the token from the system keyring when auth.token is empty"},
		{Key: "cors.origins", Default: DefaultCORSOrigins, Comment: "Browser origins allowed to call the API"},

		{Key: "cache.backend", Default: "memory", Comment: "Render cache: none, memory or redis"},
		{Key: "cache.redis_addr", Default: "localhost:6379", Comment: "Redis address when cache.backend = redis"},
		{Key: "cache.ttl", Default: "24h", Comment: "Expiry of cached renders in Redis (Go duration, 0 keeps forever)"},
		{Key: "cache.max_entries", Default: 1024, Comment: "Entries kept by the memory cache"},

		{Key: "render.width", Default: 80, Comment: "Wrap width for terminal output"},
		{Key: "render.style", Default: "dracula", Comment: "Glamour style for pretty output"},
		{Key: "render.excerpt_length", Default: 200, Comment: "Characters shown in post excerpts"},

		{Key: "tls.domain", Default: "", Comment: "Domain for automatic HTTPS; empty serves plain HTTP"},
		{Key: "tls.email", Default: "", Comment: "ACME account email"},
		{Key: "tls.storage_dir", Default: "", Comment: "Certificate storage; empty uses data_dir/certs"},
		{Key: "tls.http3", Default: false, Comment: "Also serve HTTP/3 over QUIC when TLS is on"},

		{Key: "log.level", Default: "info", Comment: "Log level: debug, info, warn or error"},
		{Key: "log.format", Default: "text", Comment: "Log format: text or json"},
	}
}
