package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/folio/internal/util"
	"github.com/mithrel/folio/internal/wire"
	"github.com/mithrel/folio/pkg/api"
)

const maxCompletions = 20

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "completion",
		Short:       "Generate shell completion scripts",
		Annotations: map[string]string{noAppAnnotation: "true"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "generate <bash|zsh|fish>",
		Short:     "Generate completions for a shell",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return fmt.Errorf("unsupported shell %q", args[0])
			}
		},
	})

	return cmd
}

// completionApp returns the app from the command context, or builds one.
// Shell completion runs without the root pre-run hook.
func completionApp(cmd *cobra.Command) (*wire.App, func(), error) {
	if cmd.Context() != nil {
		if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
			return app, func() {}, nil
		}
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
		cmd.SetContext(ctx)
	}
	cfgPath, _ := cmd.Flags().GetString("config")
	v, err := loadConfig(cmd, cfgPath)
	if err != nil {
		return nil, nil, err
	}
	app, err := wire.BuildApp(ctx, v)
	if err != nil {
		return nil, nil, err
	}
	return app, func() { _ = app.Close() }, nil
}

// completeSlugs offers post slugs ranked by fuzzy match.
func completeSlugs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	app, done, err := completionApp(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer done()
	posts, err := fetchAllPosts(cmd.Context(), app.Store, api.ListQuery{}, defaultPageSize, 0)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	taken := make(map[string]bool, len(args))
	for _, a := range args {
		taken[a] = true
	}
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		if !taken[p.Slug] {
			slugs = append(slugs, p.Slug)
		}
	}
	return util.ScoreCompletions(toComplete, slugs, maxCompletions), cobra.ShellCompDirectiveNoFileComp
}

func completeCategories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	app, done, err := completionApp(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer done()
	cats, err := app.Store.Categories(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return util.ScoreCompletions(toComplete, cats, maxCompletions), cobra.ShellCompDirectiveNoFileComp
}
