package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/folio/internal/db"
	"github.com/mithrel/folio/internal/present"
	"github.com/mithrel/folio/internal/util"
	"github.com/mithrel/folio/pkg/api"
)

const defaultPageSize = 200

// FilterOpts selects posts for list, export and search.
type FilterOpts struct {
	Category string
	Since    string
	Until    string
}

func addFilterFlags(cmd *cobra.Command, f *FilterOpts) {
	cmd.Flags().StringVar(&f.Category, "category", "", "only posts in this category")
	cmd.Flags().StringVar(&f.Since, "since", "", "posts dated on or after (YYYY-MM-DD or relative: 3d, 2w, 1mo, 1y)")
	cmd.Flags().StringVar(&f.Until, "until", "", "posts dated on or before (YYYY-MM-DD or relative)")
	_ = cmd.RegisterFlagCompletionFunc("category", completeCategories)
}

func (f FilterOpts) query() (api.ListQuery, error) {
	since, until, err := util.NormalizeDateRange(f.Since, f.Until)
	if err != nil {
		return api.ListQuery{}, err
	}
	return api.ListQuery{Category: f.Category, Since: since, Until: until}, nil
}

func newPostListCmd() *cobra.Command {
	var filters FilterOpts
	var out outputFlags
	var limit int
	var pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(cmd, app)
			if err != nil {
				return err
			}
			q, err := filters.query()
			if err != nil {
				return err
			}
			if pageSize <= 0 {
				pageSize = defaultPageSize
			}

			if opts.Mode == present.ModeTUI {
				posts, err := fetchAllPosts(cmd.Context(), app.Store, q, pageSize, limit)
				if err != nil {
					return err
				}
				return present.RenderPosts(cmd.Context(), cmd.OutOrStdout(), posts, opts)
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				writer, err := present.NewStreamWriter(w, opts)
				if err != nil {
					return err
				}
				return streamPosts(cmd.Context(), app.Store, q, pageSize, limit, writer)
			})
		},
	}
	addFilterFlags(cmd, &filters)
	addOutputFlags(cmd, &out, "plain", "plain", "json", "ndjson", "tui")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of posts (0 = all)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "posts fetched per store query")
	cmd.Flags().BoolVar(&out.noHeaders, "noheaders", false, "hide column headers (plain/tui)")
	return cmd
}

// streamPosts pages through the store and hands each page to w. limit <= 0
// means no limit.
func streamPosts(ctx context.Context, store db.Store, q api.ListQuery, pageSize, limit int, w present.StreamWriter) error {
	seen := 0
	for {
		q.Limit = pageSize
		if limit > 0 && limit-seen < pageSize {
			q.Limit = limit - seen
		}
		posts, page, err := store.ListPosts(ctx, q)
		if err != nil {
			return err
		}
		if err := w.WritePosts(posts); err != nil {
			return err
		}
		seen += len(posts)
		if page.Next == "" || page.Next == q.Cursor || (limit > 0 && seen >= limit) {
			break
		}
		q.Cursor = page.Next
	}
	return w.Close()
}

func fetchAllPosts(ctx context.Context, store db.Store, q api.ListQuery, pageSize, limit int) ([]api.Post, error) {
	c := &collector{}
	if err := streamPosts(ctx, store, q, pageSize, limit, c); err != nil {
		return nil, err
	}
	return c.posts, nil
}

type collector struct{ posts []api.Post }

func (c *collector) WritePosts(posts []api.Post) error {
	c.posts = append(c.posts, posts...)
	return nil
}

func (c *collector) Close() error { return nil }
