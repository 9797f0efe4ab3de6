package network

import (
	"context"
	"fmt"
	"time"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/dogeorg/winwifi/pkg/metrics"
	network_notify "github.com/dogeorg/winwifi/pkg/system/network/notify"
	"github.com/sirupsen/logrus"
)

const (
	DefaultScanTimeout = 10 * time.Second

	scanCompleteEvent = "scan_complete"
)

type scanPlatform interface {
	winwifi.Notifier
	winwifi.WlanSessionOpener
}

// Scanner drives one interface through trigger, wait for completion.
type Scanner struct {
	platform scanPlatform
	timeout  time.Duration
	logger   logrus.FieldLogger
	metrics  *metrics.Metrics
}

func NewScanner(platform scanPlatform, timeout time.Duration, logger logrus.FieldLogger, m *metrics.Metrics) *Scanner {
	return &Scanner{
		platform: platform,
		timeout:  timeout,
		logger:   logger,
		metrics:  m,
	}
}

// ScanInterface reports whether the completion notification arrived before
// the timeout. Registration for the notification always happens before the
// scan is triggered, otherwise a fast completion could be missed.
func (s *Scanner) ScanInterface(ctx context.Context, iface winwifi.Interface) (bool, error) {
	log := s.logger.WithField("interface", iface.Name())

	var opts []network_notify.Option
	if s.metrics != nil {
		opts = append(opts, network_notify.WithDropHook(s.metrics.IncDroppedNotification))
	}
	waiter := network_notify.NewWaiter(s.platform, scanCompleteEvent, log, opts...)
	if err := waiter.Start(); err != nil {
		s.observe("failed", 0)
		return false, err
	}

	start := time.Now()
	if err := s.trigger(iface); err != nil {
		waiter.Cancel()
		waiter.Wait(0)
		s.observe("failed", time.Since(start))
		return false, err
	}

	stop := context.AfterFunc(ctx, waiter.Cancel)
	defer stop()

	completed := waiter.Wait(s.timeout)
	took := time.Since(start)

	switch waiter.Outcome() {
	case network_notify.StateReceived:
		log.WithField("took", took).Debug("scan complete")
		s.observe("completed", took)
	case network_notify.StateTimedOut:
		log.WithField("timeout", s.timeout).Warn("Scan did not complete in time, using cached results")
		s.observe("timed_out", took)
	default:
		log.Debug("scan wait cancelled")
		s.observe("cancelled", took)
	}

	return completed, nil
}

func (s *Scanner) trigger(iface winwifi.Interface) error {
	session, err := s.platform.OpenSession()
	if err != nil {
		return fmt.Errorf("opening wlan session: %w", err)
	}

	scanErr := session.Scan(iface)
	closeErr := session.Close()

	if scanErr != nil {
		return fmt.Errorf("triggering scan on %s: %w", iface.Name(), scanErr)
	}
	if closeErr != nil {
		s.logger.WithError(closeErr).Warn("Could not close wlan session")
	}
	return nil
}

func (s *Scanner) observe(result string, took time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveScan(result, took)
	}
}
