package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/hexwire/internal/cli"
	"github.com/aretw0/hexwire/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hexwire",
	Short: "hexwire sends hex payloads to TCP devices",
	Long: `hexwire connects to a TCP device, sends a payload written as hex bytes and
prints whatever the device answers before it goes quiet.

Failures are classified (refused, timed out, reset, ...) and come with likely
causes and suggested actions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Transaction failures were already printed with their remediation.
		if !errors.Is(err, cli.ErrTransactionFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Log engine stages to stderr")
}

// loadApp reads the configuration named by --config and builds the app.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cli.NewApp(*cfg, debug)
}
