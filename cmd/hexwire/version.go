package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/hexwire"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hexwire",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hexwire version %s\n", strings.TrimSpace(hexwire.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
