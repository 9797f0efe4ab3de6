package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var sightingsCmd = &cobra.Command{
	Use:   "sightings",
	Short: "List the access points recorded by earlier scans",
	Long:  `List the access points recorded by earlier scans. Scans only record sightings when --sightings-db (or store.path) is set.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := verbosity(cmd)
		return repeat(cmd, "sightings", func(ctx context.Context, out io.Writer) (any, error) {
			log, err := state.sightings()
			if err != nil {
				return []any{}, err
			}
			if log == nil {
				return []any{}, fmt.Errorf("no sightings database configured")
			}
			if bssid, _ := cmd.Flags().GetString("forget"); bssid != "" {
				if err := log.Forget(bssid); err != nil {
					return []any{}, fmt.Errorf("forgetting %s: %w", bssid, err)
				}
				state.logger.WithField("bssid", bssid).Info("Dropped sighting")
			}
			all, err := log.List()
			if err != nil {
				return []any{}, err
			}
			return renderSightings(out, all, v), nil
		})
	},
}

func init() {
	sightingsCmd.Flags().String("forget", "", "drop the sighting of this BSSID before listing")
	rootCmd.AddCommand(sightingsCmd)
}
