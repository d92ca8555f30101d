package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/folio/pkg/api"
)

// Store persists posts keyed by slug.
type Store interface {
	CreatePost(ctx context.Context, p api.Post) (api.Post, error)
	GetPost(ctx context.Context, slug string) (api.Post, error)
	// UpdatePostCAS replaces the post when its stored version equals
	// ifVersion. The stored version is bumped by one.
	UpdatePostCAS(ctx context.Context, p api.Post, ifVersion int64) (api.Post, error)
	DeletePost(ctx context.Context, slug string) error
	ListPosts(ctx context.Context, q api.ListQuery) ([]api.Post, api.Page, error)
	Categories(ctx context.Context) ([]string, error)
}

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

const defaultListLimit = 1000

// Open returns a Store for a URL. Supported schemes are sqlite:// (a file
// path) and mem:// (process-local, nothing persisted).
func Open(ctx context.Context, url string) (Store, io.Closer, error) {
	switch {
	case strings.HasPrefix(url, "mem://"):
		return NewMemStore(), io.NopCloser(nil), nil
	case strings.HasPrefix(url, "sqlite://"):
		return openSQLite(ctx, url)
	default:
		return nil, nil, fmt.Errorf("unsupported db url %q", url)
	}
}
