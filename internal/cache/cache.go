// Package cache memoizes rendered block sequences by document hash.
package cache

import (
	"context"
	"errors"

	"github.com/mithrel/folio/pkg/blocks"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// Cache stores encoded blocks keyed by content hash.
type Cache interface {
	Get(ctx context.Context, key string) ([]blocks.Node, error)
	Put(ctx context.Context, key string, nodes []blocks.Node) error
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]blocks.Node, error) { return nil, ErrMiss }
func (Nop) Put(context.Context, string, []blocks.Node) error   { return nil }
