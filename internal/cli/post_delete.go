package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

func newPostDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:               "delete <slug>...",
		Short:             "Delete posts",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeSlugs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if len(args) > 1 {
				if err := confirmDelete(cmd.InOrStdin(), fmt.Sprintf("Delete %d posts?", len(args)), "This will permanently delete the selected posts.", yes); err != nil {
					return err
				}
			}
			for _, slug := range args {
				if err := app.Store.DeletePost(cmd.Context(), slug); err != nil {
					return storeErr(slug, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", slug)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirmDelete asks on the terminal unless yes is set. Input that is not a
// terminal cannot answer, so the caller must pass --yes.
func confirmDelete(in io.Reader, title, desc string, yes bool) error {
	if yes {
		return nil
	}
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return fmt.Errorf("confirmation required; rerun with --yes")
	}
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Value(&confirm),
		),
	).WithInput(f)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("aborted")
	}
	return nil
}
