package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPostEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "edit <slug>",
		Short:             "Edit a post in $EDITOR",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSlugs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			slug := args[0]
			cur, err := app.Store.GetPost(cmd.Context(), slug)
			if err != nil {
				return storeErr(slug, err)
			}
			edited, ok, err := editPost(cur)
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
				return nil
			}
			if edited.Slug != "" && edited.Slug != slug {
				return fmt.Errorf("slug cannot be changed while editing (%q -> %q)", slug, edited.Slug)
			}
			edited.Slug = slug

			updated, err := app.Store.UpdatePostCAS(cmd.Context(), edited, cur.Version)
			if err != nil {
				return storeErr(slug, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tv%d\n", updated.Slug, updated.DisplayTitle(), updated.Version)
			return nil
		},
	}
	return cmd
}
