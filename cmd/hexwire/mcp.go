package main

import (
	"log"
	"os"

	"github.com/aretw0/hexwire/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts hexwire as an MCP server so agents can send payloads and read logs as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		transport := app.Config.MCP.Transport
		if cmd.Flags().Changed("transport") {
			transport, _ = cmd.Flags().GetString("transport")
		}
		port := app.Config.MCP.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		defer app.LogInterrupt(ctx)

		return cli.ServeMCP(ctx, app, transport, port)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport to use: stdio or sse")
	mcpCmd.Flags().Int("port", 8081, "Port for the SSE transport")
}
