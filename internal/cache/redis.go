package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/mithrel/folio/pkg/blocks"
)

// Redis stores rendered blocks as JSON strings.
type Redis struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Redis)

// WithTTL sets the expiration for cached renders. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis connects to the server at addr.
func NewRedis(addr string, opts ...Option) *Redis {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Redis {
	r := &Redis{
		client: client,
		prefix: "folio:blocks:",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Get(ctx context.Context, key string) ([]blocks.Node, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}
	var ns []blocks.Node
	if err := json.Unmarshal([]byte(val), &ns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blocks: %w", err)
	}
	return ns, nil
}

func (r *Redis) Put(ctx context.Context, key string, nodes []blocks.Node) error {
	data, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("failed to marshal blocks: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
