package main

import (
	"errors"
	"os"

	"github.com/aretw0/hexwire/internal/cli"
	"github.com/aretw0/hexwire/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a hex payload and print the response",
	Long: `Connects to --host:--port, sends --data and prints the response as hex.

The payload is whitespace-separated two-digit hex bytes, e.g. "01 03 00 00".
--preset loads a saved request; explicit flags override its fields.`,
	Example: `  hexwire send --host 192.168.1.10 --port 502 --data "01 03 00 00 00 02"
  hexwire send --preset status --timeout 2000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetUint16("port")
		data, _ := cmd.Flags().GetString("data")
		timeout, _ := cmd.Flags().GetUint64("timeout")
		preset, _ := cmd.Flags().GetString("preset")

		if preset == "" && (host == "" || data == "") {
			return errors.New("--host and --data are required unless --preset is given")
		}

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Send(ctx, app, cli.SendOptions{
			Host:      host,
			Port:      port,
			Data:      data,
			TimeoutMS: timeout,
			Preset:    preset,
			Stdout:    cmd.OutOrStdout(),
			Stderr:    cmd.ErrOrStderr(),
			Styled:    tui.IsTerminal(os.Stderr),
		})
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().String("host", "", "IPv4 or IPv6 address of the device")
	sendCmd.Flags().Uint16P("port", "p", 0, "TCP port of the device")
	sendCmd.Flags().StringP("data", "d", "", `Hex payload, e.g. "01 02 ff"`)
	sendCmd.Flags().Uint64P("timeout", "t", 0, "Timeout in milliseconds for connect, send and each receive (default from config)")
	sendCmd.Flags().String("preset", "", "Name of a saved preset")
}
