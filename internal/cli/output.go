package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/folio/internal/present"
	"github.com/mithrel/folio/internal/wire"
	"github.com/mithrel/folio/pkg/blocks"
)

type outputFlags struct {
	mode      string
	width     int
	noColor   bool
	noHeaders bool
	allowed   []string
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags, def string, allowed ...string) {
	f.allowed = allowed
	cmd.Flags().StringVarP(&f.mode, "output", "o", def, "output mode: "+strings.Join(allowed, "|"))
	cmd.Flags().IntVar(&f.width, "width", 0, "wrap width (0 uses render.width)")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colours in styled output")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return allowed, cobra.ShellCompDirectiveNoFileComp
	})
}

// options resolves flags against the app config.
func (f outputFlags) options(cmd *cobra.Command, app *wire.App) (present.Options, error) {
	name := strings.ToLower(strings.TrimSpace(f.mode))
	mode, ok := present.ParseMode(name)
	if !ok || !slices.Contains(f.allowed, name) {
		return present.Options{}, fmt.Errorf("invalid --output: %s (want %s)", f.mode, strings.Join(f.allowed, "|"))
	}
	width := f.width
	if width <= 0 {
		width = app.Cfg.GetInt("render.width")
	}
	return present.Options{
		Mode:       mode,
		JSONIndent: mode == present.ModeJSON && isTerminal(cmd.OutOrStdout()),
		Headers:    !f.noHeaders,
		Width:      width,
		Style:      app.Cfg.GetString("render.style"),
		NoColor:    f.noColor || !isTerminal(cmd.OutOrStdout()),

		ExcerptLength: app.Cfg.GetInt("render.excerpt_length"),
		Render: func(content string) []blocks.Block {
			return app.Renderer.Render(cmd.Context(), "cli", content)
		},
		Delete: func(ctx context.Context, slug string) error {
			return app.Store.DeletePost(ctx, slug)
		},
	}, nil
}
