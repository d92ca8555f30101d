package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/folio/internal/present"
	"github.com/mithrel/folio/internal/util"
	"github.com/mithrel/folio/pkg/api"
)

func newPostSearchCmd() *cobra.Command {
	var filters FilterOpts
	var out outputFlags
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search post titles and slugs",
		Args:  cobra.ExactArgs(1),
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
			posts, err := fetchAllPosts(cmd.Context(), app.Store, q, defaultPageSize, 0)
			if err != nil {
				return err
			}
			found := searchPosts(args[0], posts, limit)
			if len(found) == 0 && opts.Mode == present.ModePlain {
				return fmt.Errorf("no posts match %q", args[0])
			}
			if opts.Mode == present.ModeTUI {
				return present.RenderPosts(cmd.Context(), cmd.OutOrStdout(), found, opts)
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderPosts(cmd.Context(), w, found, opts)
			})
		},
	}
	addFilterFlags(cmd, &filters)
	addOutputFlags(cmd, &out, "plain", "plain", "json", "ndjson", "tui")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of matches (0 = all)")
	cmd.Flags().BoolVar(&out.noHeaders, "noheaders", false, "hide column headers (plain/tui)")
	return cmd
}

// searchPosts ranks posts by fuzzy match of query against "title slug".
func searchPosts(query string, posts []api.Post, limit int) []api.Post {
	haystack := make([]string, len(posts))
	for i, p := range posts {
		haystack[i] = p.Title + " " + p.Slug
	}
	idx := util.MatchIndexes(query, haystack)
	if limit > 0 && len(idx) > limit {
		idx = idx[:limit]
	}
	out := make([]api.Post, 0, len(idx))
	for _, i := range idx {
		out = append(out, posts[i])
	}
	return out
}
