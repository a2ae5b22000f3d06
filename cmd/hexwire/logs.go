package main

import (
	"strings"

	"github.com/aretw0/hexwire/internal/cli"
	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Read or edit today's application log",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		q := domain.LogQuery{Level: level, Limit: limit}
		return cli.ListLogs(cmd.Context(), app, q, asJSON, cmd.OutOrStdout())
	},
}

var logsAddCmd = &cobra.Command{
	Use:   "add <message>",
	Short: "Append an entry to today's log",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")
		source, _ := cmd.Flags().GetString("source")

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.AddLog(cmd.Context(), app, level, source, strings.Join(args, " "))
	},
}

var logsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry from today's log",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.ClearLogs(cmd.Context(), app, cmd.OutOrStdout())
	},
}

var crashesCmd = &cobra.Command{
	Use:   "crashes",
	Short: "List the most recent crash reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.ListCrashes(cmd.Context(), app, limit, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(crashesCmd)
	logsCmd.AddCommand(logsAddCmd)
	logsCmd.AddCommand(logsClearCmd)

	logsCmd.Flags().StringP("level", "l", "all", "Only show entries of this level")
	logsCmd.Flags().IntP("limit", "n", domain.DefaultLogLimit, "Maximum number of entries")
	logsCmd.Flags().Bool("json", false, "Print entries as JSON")

	logsAddCmd.Flags().StringP("level", "l", domain.LevelInfo, "Entry level")
	logsAddCmd.Flags().StringP("source", "s", "cli", "Component that produced the entry")

	crashesCmd.Flags().IntP("limit", "n", 10, "Maximum number of reports")
}
