package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/folio/internal/present"
)

func newPostShowCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:               "show <slug>",
		Short:             "Display a post",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSlugs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(cmd, app)
			if err != nil {
				return err
			}
			p, err := app.Store.GetPost(cmd.Context(), args[0])
			if err != nil {
				return storeErr(args[0], err)
			}
			bs := app.Renderer.Render(cmd.Context(), "cli", p.Content)
			if opts.Mode == present.ModeTUI {
				return present.RenderPost(cmd.Context(), cmd.OutOrStdout(), p, bs, opts)
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderPost(cmd.Context(), w, p, bs, opts)
			})
		},
	}
	addOutputFlags(cmd, &out, "pretty", "plain", "pretty", "styled", "json", "ndjson", "html", "tui")
	return cmd
}
