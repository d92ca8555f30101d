package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/folio/internal/importer"
)

func newPostImportCmd() *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "import <glob>...",
		Short: "Import markdown files with YAML front matter",
		Long: "Import posts from markdown files with a ---fenced YAML header. Patterns support ** " +
			"(e.g. 'posts/**/*.md'); quote them so the shell leaves them alone. The slug defaults to the file name.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			files, err := importer.Expand(args)
			if err != nil {
				return err
			}
			res, err := importer.Import(cmd.Context(), app.Store, files, importer.Options{
				Overwrite: overwrite,
				Log:       app.Log,
			})
			if err != nil {
				return err
			}
			for _, ferr := range res.Failed {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "failed: %v\n", ferr)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created: %d\nUpdated: %d\nSkipped (exists): %d\nFailed: %d\n",
				res.Created, res.Updated, res.Skipped, len(res.Failed))
			if len(res.Failed) > 0 && res.Created+res.Updated == 0 {
				return fmt.Errorf("no posts imported from %s", strings.Join(args, " "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace posts whose slug already exists")
	return cmd
}

func newPostExportCmd() *cobra.Command {
	var filters FilterOpts
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export posts as markdown files with YAML front matter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(dir) == "" {
				return fmt.Errorf("--dir is required")
			}
			app := getApp(cmd)
			q, err := filters.query()
			if err != nil {
				return err
			}
			q.Limit = defaultPageSize
			n, err := importer.Export(cmd.Context(), app.Store, dir, q)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d posts to %s\n", n, dir)
			return nil
		},
	}
	addFilterFlags(cmd, &filters)
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory")
	_ = cmd.MarkFlagDirname("dir")
	return cmd
}
