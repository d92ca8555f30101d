package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mithrel/folio/internal/present"
)

func newRenderCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a document to blocks",
		Long:  "Render a document in the block dialect. With no file, or with -, the document is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(cmd, app)
			if err != nil {
				return err
			}
			doc, err := readDocument(cmd, args)
			if err != nil {
				return err
			}
			bs := app.Renderer.Render(cmd.Context(), "cli", doc)
			if opts.Mode == present.ModeTUI {
				return present.RenderBlocks(cmd.Context(), cmd.OutOrStdout(), bs, opts)
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderBlocks(cmd.Context(), w, bs, opts)
			})
		},
	}
	addOutputFlags(cmd, &out, "plain", "plain", "pretty", "styled", "json", "ndjson", "html", "tui")
	return cmd
}

// readDocument reads the named file, or stdin for "-" or no argument.
func readDocument(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}
