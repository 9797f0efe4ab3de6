package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"poll"},
	Short:   "Show the currently connected access points",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := verbosity(cmd)
		return repeat(cmd, "status", func(ctx context.Context, out io.Writer) (any, error) {
			state.logger.Info("Retrieving connected AP info")
			mgr, err := state.manager()
			if err != nil {
				return []fields{}, err
			}
			conns, err := mgr.ConnectedInterfaces(ctx)
			if err != nil {
				return []fields{}, err
			}
			return renderConnections(out, conns, v), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
