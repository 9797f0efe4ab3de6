package network_connector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/dogeorg/winwifi/pkg/metrics"
	network_notify "github.com/dogeorg/winwifi/pkg/system/network/notify"
	network_persistor "github.com/dogeorg/winwifi/pkg/system/network/persistor"
	"github.com/sirupsen/logrus"
)

const (
	DefaultConnectTimeout = 20 * time.Second

	connectionCompleteEvent = "connection_complete"
)

var (
	ErrNoInterface    = errors.New("no wifi interface available")
	ErrConnectTimeout = errors.New("connection did not complete in time")
)

var _ winwifi.NetworkConnector = &Connector{}

type Connector struct {
	platform  winwifi.WlanPlatform
	persistor network_persistor.ProfilePersistor
	timeout   time.Duration
	logger    logrus.FieldLogger
	metrics   *metrics.Metrics
}

func NewNetworkConnector(platform winwifi.WlanPlatform, config winwifi.ConnectConfig, logger logrus.FieldLogger, m *metrics.Metrics) *Connector {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	return &Connector{
		platform:  platform,
		persistor: network_persistor.NewNetworkPersistor(platform, logger),
		timeout:   timeout,
		logger:    logger,
		metrics:   m,
	}
}

// Connect joins req.SSID on the first wifi interface. The wait for
// connection_complete is armed before the connect call so a fast
// association is never missed.
func (t *Connector) Connect(ctx context.Context, req winwifi.ConnectRequest) error {
	if len(req.SSID) == 0 {
		return errors.New("no SSID given")
	}

	interfaces, err := t.platform.Interfaces(ctx)
	if err != nil {
		return fmt.Errorf("listing wifi interfaces: %w", err)
	}
	if len(interfaces) == 0 {
		return ErrNoInterface
	}
	iface := interfaces[0]
	log := t.logger.WithField("interface", iface.Name()).WithField("ssid", req.SSID.String())

	profile, created, err := t.persistor.Ensure(ctx, iface, req.SSID, req.Password)
	if err != nil {
		return err
	}
	if created && !req.Remember {
		defer func() {
			if err := t.persistor.Remove(context.WithoutCancel(ctx), iface, profile); err != nil {
				log.WithError(err).Warn("Could not remove temporary profile")
			}
		}()
	}

	var opts []network_notify.Option
	if t.metrics != nil {
		opts = append(opts, network_notify.WithDropHook(t.metrics.IncDroppedNotification))
	}
	waiter := network_notify.NewWaiter(t.platform, connectionCompleteEvent, log, opts...)
	if err := waiter.Start(); err != nil {
		return err
	}

	if err := t.platform.Connect(ctx, iface, profile, req.SSID); err != nil {
		waiter.Cancel()
		waiter.Wait(0)
		return fmt.Errorf("connecting to %s: %w", req.SSID, err)
	}

	stop := context.AfterFunc(ctx, waiter.Cancel)
	defer stop()

	if !waiter.Wait(t.timeout) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("connecting to %s: %w", req.SSID, ErrConnectTimeout)
	}
	log.Info("Connected")
	return nil
}

// Disconnect drops the association of every connected interface. All
// interfaces are attempted, the first failure is returned.
func (t *Connector) Disconnect(ctx context.Context) error {
	interfaces, err := t.platform.Interfaces(ctx)
	if err != nil {
		return fmt.Errorf("listing wifi interfaces: %w", err)
	}

	var firstErr error
	for _, iface := range interfaces {
		if iface.State != winwifi.InterfaceStateConnected {
			continue
		}
		if err := t.platform.Disconnect(ctx, iface); err != nil {
			t.logger.WithField("interface", iface.Name()).WithError(err).Error("Could not disconnect")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		t.logger.WithField("interface", iface.Name()).Info("Disconnected")
	}
	return firstErr
}

// Forget deletes the profiles of ssids on every interface.
func (t *Connector) Forget(ctx context.Context, ssids ...winwifi.SSID) error {
	interfaces, err := t.platform.Interfaces(ctx)
	if err != nil {
		return fmt.Errorf("listing wifi interfaces: %w", err)
	}
	if len(interfaces) == 0 {
		return ErrNoInterface
	}

	for _, iface := range interfaces {
		removed, err := t.persistor.Forget(ctx, iface, ssids...)
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			t.logger.WithField("interface", iface.Name()).WithField("profiles", removed).Debug("forgot profiles")
		}
	}
	return nil
}

// ParseRemember reads the optional REMEMBER argument. Empty and the usual
// spellings of false are false, anything else is true.
func ParseRemember(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "f", "0", "no", "n":
		return false
	}
	return true
}
