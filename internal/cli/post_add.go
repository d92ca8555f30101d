package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/folio/internal/editor"
	"github.com/mithrel/folio/pkg/api"
)

func newPostAddCmd() *cobra.Command {
	var p api.Post
	var file string
	var edit bool
	cmd := &cobra.Command{
		Use:   "add <slug>",
		Short: "Add a new post",
		Long: "Add a new post. The content comes from --file (- for stdin) or, with --edit, from $EDITOR. " +
			"With neither the post starts empty.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			p.Slug = args[0]
			if !api.ValidSlug(p.Slug) {
				return fmt.Errorf("invalid slug %q: use lowercase letters, digits and single dashes", p.Slug)
			}
			if p.Date == "" {
				p.Date = time.Now().Format(api.DateLayout)
			} else if _, err := time.Parse(api.DateLayout, p.Date); err != nil {
				return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", p.Date)
			}
			if file != "" && edit {
				return fmt.Errorf("choose either --file or --edit")
			}

			if file != "" {
				doc, err := readDocument(cmd, []string{file})
				if err != nil {
					return err
				}
				p.Content = strings.TrimRight(doc, "\n")
			}
			if edit {
				edited, ok, err := editPost(p)
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No edits; post not created.")
					return nil
				}
				edited.Slug = p.Slug
				p = edited
			}
			if strings.TrimSpace(p.Title) == "" {
				p.Title = editor.TitleFromContent(p.Content)
			}

			created, err := app.Store.CreatePost(cmd.Context(), p)
			if err != nil {
				return storeErr(p.Slug, err)
			}
			app.Log.Debug("post created", "slug", created.Slug)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", created.Slug, created.DisplayTitle())
			return nil
		},
	}
	cmd.Flags().StringVar(&p.Title, "title", "", "post title (defaults to the first line of content)")
	cmd.Flags().StringVar(&p.Author, "author", "", "post author")
	cmd.Flags().StringVar(&p.Date, "date", "", "publication date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&p.Category, "category", "", "post category")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read content from a file (- for stdin)")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "write the post in $EDITOR")
	_ = cmd.RegisterFlagCompletionFunc("category", completeCategories)
	return cmd
}

// editPost opens p in the editor. ok is false when nothing was changed.
func editPost(p api.Post) (api.Post, bool, error) {
	path, err := editor.PathForSlug(p.Slug)
	if err != nil {
		return api.Post{}, false, err
	}
	initial, err := editor.ComposeContent(p)
	if err != nil {
		return api.Post{}, false, err
	}
	out, changed, err := editor.OpenAt(path, initial)
	if err != nil {
		return api.Post{}, false, err
	}
	if !changed {
		return api.Post{}, false, nil
	}
	edited, err := editor.ParseEdited(out)
	if err != nil {
		return api.Post{}, false, err
	}
	return edited, true, nil
}
