package cmd

import (
	"context"
	"io"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/dogeorg/winwifi/pkg/snapshot"
	"github.com/dogeorg/winwifi/pkg/system/network"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [SSID]",
	Short: "Scan for networks, optionally only the one named SSID",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ssid winwifi.SSID
		if len(args) == 1 {
			ssid = winwifi.SSID(args[0])
		}
		save, _ := cmd.Flags().GetString("save")
		load, _ := cmd.Flags().GetString("load")
		v := verbosity(cmd)

		return repeat(cmd, "scan", func(ctx context.Context, out io.Writer) (any, error) {
			result, err := scanOrLoad(ctx, ssid, load)
			if err != nil {
				return []any{}, err
			}
			if load == "" {
				record(result)
			}
			if save != "" {
				if err := snapshot.Save(save, hostname(), result); err != nil {
					state.logger.WithError(err).Error("Could not save scan snapshot")
				}
			}
			return renderScan(out, result.Networks, v), nil
		})
	},
}

func scanOrLoad(ctx context.Context, ssid winwifi.SSID, load string) (winwifi.ScanResult, error) {
	if load != "" {
		s, err := snapshot.Load(load)
		if err != nil {
			return winwifi.ScanResult{}, err
		}
		state.logger.WithField("host", s.Host).WithField("saved", s.SavedAt).Info("Rendering saved scan")
		s.Result.Networks = network.FilterBySSID(s.Result.Networks, ssid)
		return s.Result, nil
	}

	state.logger.Info("Scanning for networks")
	mgr, err := state.manager()
	if err != nil {
		return winwifi.ScanResult{}, err
	}
	return mgr.ScanNetworks(ctx, ssid)
}

func record(result winwifi.ScanResult) {
	log, err := state.sightings()
	if err != nil {
		state.logger.WithError(err).Error("Could not open sightings database")
		return
	}
	if log == nil {
		return
	}
	n, err := log.Record(result)
	if err != nil {
		state.logger.WithError(err).Error("Could not record sightings")
		return
	}
	state.logger.WithField("count", n).Debug("Recorded sightings")
}

func init() {
	scanCmd.Flags().String("save", "", "save the scan result to FILE")
	scanCmd.Flags().String("load", "", "render a saved scan from FILE instead of scanning")
	rootCmd.AddCommand(scanCmd)
}
