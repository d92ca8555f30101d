package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/folio/internal/db"
)

// newPostCmd defines the parent "post" command.
func newPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Work with posts",
	}

	cmd.AddCommand(newPostListCmd())
	cmd.AddCommand(newPostShowCmd())
	cmd.AddCommand(newPostAddCmd())
	cmd.AddCommand(newPostEditCmd())
	cmd.AddCommand(newPostDeleteCmd())
	cmd.AddCommand(newPostSearchCmd())
	cmd.AddCommand(newPostImportCmd())
	cmd.AddCommand(newPostExportCmd())

	return cmd
}

// storeErr turns store sentinels into messages naming the post.
func storeErr(slug string, err error) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("post %q not found", slug)
	case errors.Is(err, db.ErrConflict):
		return fmt.Errorf("post %q: %w", slug, err)
	default:
		return err
	}
}
