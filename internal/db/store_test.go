package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/folio/pkg/api"
)

func setupTestDB(t *testing.T) (Store, context.Context) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, closer, err := Open(ctx, "sqlite://"+dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })
	return store, ctx
}

func TestSQLiteStoreContract(t *testing.T) {
	store, ctx := setupTestDB(t)
	runStoreContract(t, ctx, store)
}

func TestMemStoreContract(t *testing.T) {
	store, closer, err := Open(context.Background(), "mem://")
	require.NoError(t, err)
	defer closer.Close()
	runStoreContract(t, context.Background(), store)
}

func TestOpenUnsupported(t *testing.T) {
	_, _, err := Open(context.Background(), "postgres://x")
	assert.Error(t, err)
}

func runStoreContract(t *testing.T, ctx context.Context, store Store) {
	initial := api.Post{
		Slug:     "post-1",
		Title:    "Initial",
		Content:  "# Body",
		Author:   "A",
		Date:     "2025-01-01",
		Category: "misc",
	}

	t.Run("CreatePost initializes version", func(t *testing.T) {
		created, err := store.CreatePost(ctx, initial)
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.Version)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("CreatePost rejects duplicate slug", func(t *testing.T) {
		_, err := store.CreatePost(ctx, initial)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("GetPost round trips", func(t *testing.T) {
		got, err := store.GetPost(ctx, "post-1")
		require.NoError(t, err)
		assert.Equal(t, initial.Title, got.Title)
		assert.Equal(t, initial.Content, got.Content)
		assert.Equal(t, initial.Category, got.Category)
	})

	t.Run("GetPost missing", func(t *testing.T) {
		_, err := store.GetPost(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UpdatePostCAS bumps version", func(t *testing.T) {
		cur, err := store.GetPost(ctx, "post-1")
		require.NoError(t, err)
		cur.Title = "Updated"
		updated, err := store.UpdatePostCAS(ctx, cur, cur.Version)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.Version)
		assert.Equal(t, "Updated", updated.Title)
	})

	t.Run("UpdatePostCAS fails on version mismatch", func(t *testing.T) {
		cur, err := store.GetPost(ctx, "post-1")
		require.NoError(t, err)
		cur.Title = "Conflicting"
		_, err = store.UpdatePostCAS(ctx, cur, 1)
		assert.ErrorIs(t, err, ErrConflict)

		final, err := store.GetPost(ctx, "post-1")
		require.NoError(t, err)
		assert.Equal(t, "Updated", final.Title)
	})

	t.Run("UpdatePostCAS missing post", func(t *testing.T) {
		_, err := store.UpdatePostCAS(ctx, api.Post{Slug: "ghost"}, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListPosts pages newest first", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			_, err := store.CreatePost(ctx, api.Post{
				Slug:     fmt.Sprintf("p-%02d", i),
				Title:    fmt.Sprintf("title-%02d", i),
				Date:     fmt.Sprintf("2025-02-%02d", 10-i),
				Category: "paged",
			})
			require.NoError(t, err)
		}
		first, page, err := store.ListPosts(ctx, api.ListQuery{Category: "paged", Limit: 3})
		require.NoError(t, err)
		require.Len(t, first, 3)
		require.NotEmpty(t, page.Next)
		assert.Equal(t, "p-00", first[0].Slug)
		assert.Equal(t, "p-02", first[2].Slug)

		second, page2, err := store.ListPosts(ctx, api.ListQuery{Category: "paged", Limit: 3, Cursor: page.Next})
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "p-03", second[0].Slug)
		assert.Empty(t, page2.Next)

		all, _, err := store.ListPosts(ctx, api.ListQuery{})
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})

	t.Run("ListPosts filters by date range", func(t *testing.T) {
		got, _, err := store.ListPosts(ctx, api.ListQuery{Since: "2025-02-08", Until: "2025-02-09"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "p-01", got[0].Slug)
		assert.Equal(t, "p-02", got[1].Slug)
	})

	t.Run("Categories are distinct and sorted", func(t *testing.T) {
		cats, err := store.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"misc", "paged"}, cats)
	})

	t.Run("DeletePost", func(t *testing.T) {
		require.NoError(t, store.DeletePost(ctx, "post-1"))
		assert.ErrorIs(t, store.DeletePost(ctx, "post-1"), ErrNotFound)
	})
}

func TestSeed(t *testing.T) {
	store, ctx := setupTestDB(t)
	n, err := Seed(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, len(DemoPosts()), n)

	n, err = Seed(ctx, store)
	require.NoError(t, err)
	assert.Zero(t, n)

	posts, _, err := store.ListPosts(ctx, api.ListQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "why-i-love-python", posts[0].Slug)
}

func TestRunInTxRollsBack(t *testing.T) {
	store, ctx := setupTestDB(t)
	boom := errors.New("boom")
	err := RunInTx(ctx, store, func(ctx context.Context) error {
		_, err := store.CreatePost(ctx, api.Post{Slug: "tx-post", Date: "2025-01-01"})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	_, err = store.GetPost(ctx, "tx-post")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCursorToken(t *testing.T) {
	_, ok := parseCursorToken("")
	assert.False(t, ok)
	_, ok = parseCursorToken("2025-01-01|")
	assert.False(t, ok)
	c, ok := parseCursorToken(encodeCursorToken(api.Post{Date: "2025-01-01", Slug: "a"}))
	require.True(t, ok)
	assert.True(t, c.comesAfter(api.Post{Date: "2024-12-31", Slug: "z"}))
	assert.True(t, c.comesAfter(api.Post{Date: "2025-01-01", Slug: "b"}))
	assert.False(t, c.comesAfter(api.Post{Date: "2025-01-01", Slug: "a"}))
	assert.False(t, c.comesAfter(api.Post{Date: "2025-01-02", Slug: "a"}))
}
