package cmd

import (
	"context"
	"io"

	winwifi "github.com/dogeorg/winwifi/pkg"
	network_connector "github.com/dogeorg/winwifi/pkg/system/network/connector"
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect SSID [PASSWORD [REMEMBER]]",
	Short: "Connect to an access point",
	Long: `Connect to an access point. With a PASSWORD a WPA2-PSK profile is created,
without one an existing profile for SSID is used or an open one is created.
Profiles created here are removed again unless REMEMBER is true.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := winwifi.ConnectRequest{SSID: winwifi.SSID(args[0])}
		if len(args) > 1 {
			req.Password = args[1]
		}
		if len(args) > 2 {
			req.Remember = network_connector.ParseRemember(args[2])
		}

		return repeat(cmd, "connect", func(ctx context.Context, out io.Writer) (any, error) {
			state.logger.Info("Connecting to SSID: " + req.SSID.String())
			err := connect(ctx, req)
			io.WriteString(out, resultLine(err == nil))
			return fields{{"result", err == nil}}, err
		})
	},
}

func connect(ctx context.Context, req winwifi.ConnectRequest) error {
	c, err := state.connector()
	if err != nil {
		return err
	}
	return c.Connect(ctx, req)
}

func init() {
	rootCmd.AddCommand(connectCmd)
}
