package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/dogeorg/winwifi/pkg/logging"
	"github.com/dogeorg/winwifi/pkg/metrics"
	"github.com/dogeorg/winwifi/pkg/store"
	"github.com/dogeorg/winwifi/pkg/system/network"
	network_connector "github.com/dogeorg/winwifi/pkg/system/network/connector"
	network_wifi "github.com/dogeorg/winwifi/pkg/system/network/wifi"
	"github.com/dogeorg/winwifi/pkg/version"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Replaced in tests.
var newPlatform = network_wifi.NewPlatform

type app struct {
	config   winwifi.Config
	logger   *logrus.Logger
	closer   io.Closer
	metrics  *metrics.Metrics
	platform winwifi.WlanPlatform
	store    *store.Store
}

var state app

func (a *app) wlan() (winwifi.WlanPlatform, error) {
	if a.platform != nil {
		return a.platform, nil
	}
	p, err := newPlatform(a.logger)
	if err != nil {
		return nil, err
	}
	a.platform = p
	return p, nil
}

func (a *app) manager() (*network.Manager, error) {
	p, err := a.wlan()
	if err != nil {
		return nil, err
	}
	return network.NewNetworkManager(p, a.config.Scan, a.logger, a.metrics), nil
}

func (a *app) connector() (*network_connector.Connector, error) {
	p, err := a.wlan()
	if err != nil {
		return nil, err
	}
	return network_connector.NewNetworkConnector(p, a.config.Connect, a.logger, a.metrics), nil
}

// sightings is nil when no sightings database is configured.
func (a *app) sightings() (*store.SightingLog, error) {
	if a.config.Store.Path == "" {
		return nil, nil
	}
	if a.store == nil {
		s, err := store.NewStore(a.config.Store.Path)
		if err != nil {
			return nil, err
		}
		a.store = s
	}
	return store.NewSightingLog(a.store)
}

func (a *app) close() {
	if c, ok := a.platform.(io.Closer); ok {
		c.Close()
	}
	a.platform = nil

	if a.store != nil {
		a.store.Close()
		a.store = nil
	}

	if a.metrics != nil && a.config.Metrics.Textfile != "" {
		if err := a.metrics.WriteTextfile(a.config.Metrics.Textfile); err != nil {
			a.logger.WithError(err).Error("Could not write metrics textfile")
		}
	}
	if a.closer != nil {
		a.closer.Close()
		a.closer = nil
	}
}

var rootCmd = &cobra.Command{
	Use:           "winwifi",
	Short:         "winwifi scans for and manages Wi-Fi networks",
	Long:          `winwifi scans nearby Wi-Fi networks, reports per access point band and channel data, and connects to or forgets networks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		cfg, err := winwifi.LoadConfig(configFile, cmd.Flags())
		if err != nil {
			return err
		}

		logger, closer, err := logging.New(cfg.Log, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		state = app{
			config:  cfg,
			logger:  logger,
			closer:  closer,
			metrics: metrics.New(),
		}

		logHost(cmd.Context(), logger)
		logger.Info("CMD:winwifi " + strings.Join(os.Args[1:], " "))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		state.close()
	},
}

func logHost(ctx context.Context, logger logrus.FieldLogger) {
	release := version.Get()
	log := logger.WithField("agent", release.UserAgent()).WithField("commit", release.Git.Commit)

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		log.WithError(err).Debug("could not read host info")
		return
	}
	log.WithField("host", info.Hostname).
		WithField("os", info.Platform+" "+info.PlatformVersion).
		WithField("kernel", info.KernelVersion).
		Debug("host")
}

func hostname() string {
	info, err := host.Info()
	if err != nil {
		return ""
	}
	return info.Hostname
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if state.logger != nil {
			state.logger.WithError(err).Error("Command failed")
			state.logger.Info(strings.Repeat("=", 64))
		}
		state.close()
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.IntP("repeat", "r", 1, "repeat the command AMOUNT times")
	flags.IntP("interval", "i", 0, "seconds between repetitions")
	flags.IntP("timeout", "t", 0, "alias of --interval")
	flags.IntP("verbosity", "v", 0, "output verbosity [0-2]")
	flags.Bool("json", false, "print the JSON payload instead of text")
	flags.Duration("scan-timeout", 0, "how long to wait for a scan to complete (0 waits forever)")
	flags.Duration("connect-timeout", 0, "how long to wait for a connection to complete")
	flags.String("log-dir", "", "directory for the dated log files")
	flags.String("log-level", "", "file log level")
	flags.String("console-level", "", "stderr log level")
	flags.Bool("no-log-file", false, "do not write a log file")
	flags.String("metrics-textfile", "", "write prometheus metrics to this file after the run")
	flags.String("sightings-db", "", "sqlite database scans record access point sightings into")
	flags.MarkHidden("timeout")
}

// interval returns --interval, or --timeout when only that was given.
func interval(cmd *cobra.Command) time.Duration {
	seconds, _ := cmd.Flags().GetInt("interval")
	if !cmd.Flags().Changed("interval") && cmd.Flags().Changed("timeout") {
		seconds, _ = cmd.Flags().GetInt("timeout")
	}
	if seconds < 0 {
		seconds = 0
	}
	return time.Duration(seconds) * time.Second
}

// verbosity is clamped at zero.
func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetInt("verbosity")
	if v < 0 {
		return 0
	}
	return v
}
