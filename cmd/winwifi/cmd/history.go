package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the stored network profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := verbosity(cmd)
		return repeat(cmd, "history", func(ctx context.Context, out io.Writer) (any, error) {
			state.logger.Info("Retrieving AP history")
			mgr, err := state.manager()
			if err != nil {
				return []string{}, err
			}
			profiles, err := mgr.Profiles(ctx)
			if err != nil {
				return []string{}, err
			}
			return renderHistory(out, profiles, v), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
