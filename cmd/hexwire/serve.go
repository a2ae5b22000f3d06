package main

import (
	"fmt"
	"net"

	"github.com/aretw0/hexwire/internal/cli"
	"github.com/aretw0/hexwire/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Exposes transactions, logs and crash reports as a JSON API. The OpenAPI document is served on /openapi.yaml and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		addr := app.Config.HTTP.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("error listening on %s: %w", addr, err)
		}

		if tui.IsTerminal(cmd.OutOrStdout()) {
			tui.PrintBanner(cmd.OutOrStdout())
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		defer app.Crash.Recover(ctx)
		defer app.LogInterrupt(ctx)
		return cli.Serve(ctx, app, ln, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
