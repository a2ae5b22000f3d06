package main

import (
	"github.com/aretw0/hexwire/internal/cli"
	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/spf13/cobra"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage saved requests",
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a request under a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetUint16("port")
		data, _ := cmd.Flags().GetString("data")
		timeout, _ := cmd.Flags().GetUint64("timeout")
		description, _ := cmd.Flags().GetString("description")

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		p := domain.Preset{
			Name:        args[0],
			Host:        host,
			Port:        port,
			Payload:     data,
			TimeoutMS:   timeout,
			Description: description,
		}
		return cli.SavePreset(cmd.Context(), app, p, cmd.OutOrStdout())
	},
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.ListPresets(cmd.Context(), app, cmd.OutOrStdout())
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one saved request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.ShowPreset(cmd.Context(), app, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetSaveCmd, presetListCmd, presetShowCmd)

	presetSaveCmd.Flags().String("host", "", "IPv4 or IPv6 address of the device")
	presetSaveCmd.Flags().Uint16P("port", "p", 0, "TCP port of the device")
	presetSaveCmd.Flags().StringP("data", "d", "", "Hex payload")
	presetSaveCmd.Flags().Uint64P("timeout", "t", 0, "Timeout in milliseconds")
	presetSaveCmd.Flags().String("description", "", "Free-form notes")
	_ = presetSaveCmd.MarkFlagRequired("host")
	_ = presetSaveCmd.MarkFlagRequired("port")
	_ = presetSaveCmd.MarkFlagRequired("data")
}
