package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/folio/internal/config"
	"github.com/mithrel/folio/internal/wire"
)

type ctxKey string

const (
	appKey ctxKey = "app"
	cfgKey ctxKey = "cfg"

	// commands annotated with noAppAnnotation only need the config.
	noAppAnnotation = "folio/no-app"
)

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "folio-cli",
		Short:         "Folio: a small blog engine with a line-oriented block renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			ctx := context.WithValue(cmd.Context(), cfgKey, v)
			if !skipsApp(cmd) {
				app, err := wire.BuildApp(ctx, v)
				if err != nil {
					return err
				}
				ctx = context.WithValue(ctx, appKey, app)
			}
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml)")
	cmd.PersistentFlags().String("db-url", "", "database URL (sqlite://path or mem://)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug|info|warn|error")
	cmd.PersistentFlags().String("log-format", "", "log format: text|json")

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newPostCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command, cfgPath string) (*viper.Viper, error) {
	v := viper.New()
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	}
	if err := config.Load(cmd.Context(), v); err != nil {
		return nil, err
	}
	applyConfigFlagOverrides(cmd.Flags(), v, configFlags)
	return v, nil
}

func skipsApp(cmd *cobra.Command) bool {
	// Completion requests build their own app from the parsed flags.
	if cmd.Name() == cobra.ShellCompRequestCmd || cmd.Name() == cobra.ShellCompNoDescRequestCmd {
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[noAppAnnotation] == "true" {
			return true
		}
	}
	return false
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

func getConfig(cmd *cobra.Command) *viper.Viper {
	if v, ok := cmd.Context().Value(cfgKey).(*viper.Viper); ok {
		return v
	}
	return viper.New()
}
