package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrel/folio/internal/config"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP blog API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := config.CheckConfigValidity(app.Cfg); err != nil {
				return err
			}
			if app.Cfg.GetString("auth.token") == "" {
				app.Log.Warn("auth.token is empty; write endpoints are disabled")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Blog API listening on %s\n", app.Cfg.GetString("http_addr"))
			return app.Server().ListenAndServe(ctx)
		},
	}
	cmd.Flags().String("listen", "", "listen address (override config http_addr)")
	return cmd
}
