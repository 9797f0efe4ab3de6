package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect every connected interface",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return repeat(cmd, "disconnect", func(ctx context.Context, out io.Writer) (any, error) {
			state.logger.Info("Disconnecting")
			err := disconnect(ctx)
			io.WriteString(out, resultLine(err == nil))
			return fields{{"result", err == nil}}, err
		})
	},
}

func disconnect(ctx context.Context) error {
	c, err := state.connector()
	if err != nil {
		return err
	}
	return c.Disconnect(ctx)
}

func init() {
	rootCmd.AddCommand(disconnectCmd)
}
