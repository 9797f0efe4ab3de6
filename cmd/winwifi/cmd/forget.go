package cmd

import (
	"context"
	"io"
	"strings"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:   "forget SSID...",
	Short: "Delete the stored profiles of the given networks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ssids := make([]winwifi.SSID, len(args))
		for i, a := range args {
			ssids[i] = winwifi.SSID(a)
		}

		return repeat(cmd, "forget", func(ctx context.Context, out io.Writer) (any, error) {
			state.logger.Info("Forgetting APs (" + strings.Join(args, ", ") + ")")
			err := forget(ctx, ssids)
			io.WriteString(out, resultLine(err == nil))
			return fields{{"result", err == nil}}, err
		})
	},
}

func forget(ctx context.Context, ssids []winwifi.SSID) error {
	c, err := state.connector()
	if err != nil {
		return err
	}
	return c.Forget(ctx, ssids...)
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}
