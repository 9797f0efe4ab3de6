package network

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/dogeorg/winwifi/pkg/metrics"
	network_ie "github.com/dogeorg/winwifi/pkg/system/network/ie"
	"github.com/sirupsen/logrus"
)

const interfaceStatePrefix = "wlan_interface_state_"

var _ winwifi.NetworkManager = &Manager{}

type Manager struct {
	platform winwifi.WlanPlatform
	scanner  *Scanner
	logger   logrus.FieldLogger
	metrics  *metrics.Metrics
}

// ScanNetworks scans every interface in turn and returns the networks they
// see, each carrying its BSS entries. A non-empty ssid limits the result to
// that network. Failures on one interface are logged and the others still
// contribute, so the worst case is an empty list.
func (t *Manager) ScanNetworks(ctx context.Context, ssid winwifi.SSID) (winwifi.ScanResult, error) {
	result := winwifi.ScanResult{
		Started:  time.Now(),
		Networks: []winwifi.Network{},
	}

	interfaces, err := t.platform.Interfaces(ctx)
	if err != nil {
		t.logger.WithError(err).Error("Could not list wifi interfaces")
		result.Finished = time.Now()
		return result, fmt.Errorf("listing wifi interfaces: %w", err)
	}

	available := []winwifi.Network{}

	for _, iface := range interfaces {
		if ctx.Err() != nil {
			break
		}
		log := t.logger.WithField("interface", iface.Name())

		if _, err := t.scanner.ScanInterface(ctx, iface); err != nil {
			log.WithError(err).Error("Failed to scan for Wifi networks")
			continue
		}

		networks, err := t.platform.AvailableNetworks(ctx, iface)
		if err != nil {
			log.WithError(err).Error("Could not list available networks")
			continue
		}
		available = append(available, networks...)
		log.WithField("count", len(networks)).Debug("networks found")

		observations, err := t.platform.BssList(ctx, iface)
		if err != nil {
			log.WithError(err).Error("Could not list BSS entries")
			continue
		}
		log.WithField("count", len(observations)).Debug("BSS entries found")

		enriched := make([]winwifi.Bss, 0, len(observations))
		for _, raw := range observations {
			bss, err := network_ie.Enrich(raw)
			if err != nil {
				var bssErr winwifi.BssError
				if !errors.As(err, &bssErr) {
					bssErr = winwifi.BssError{BSSID: raw.BSSID, SSID: raw.SSID, Err: err}
				}
				result.Skipped = append(result.Skipped, bssErr)
				log.WithError(err).Warn("Skipping BSS entry")
				if t.metrics != nil {
					t.metrics.BssDecodeErrors.Inc()
				}
				continue
			}
			enriched = append(enriched, bss)
		}

		available = Aggregate(available, enriched, t.reportUnmatched)
	}

	available = FilterBySSID(available, ssid)
	DecodeNames(available)

	if t.metrics != nil {
		t.metrics.NetworksFound.Set(float64(len(available)))
	}

	result.Networks = available
	result.Finished = time.Now()
	return result, nil
}

func (t *Manager) reportUnmatched(bss winwifi.Bss) {
	t.logger.WithField("bssid", bss.BSSID.String()).Error(UnmatchedMessage(bss))
	if t.metrics != nil {
		t.metrics.BssUnmatched.Inc()
	}
}

// InterfacesInState returns the interfaces currently in state, which may be
// given with or without the wlan_interface_state_ prefix. An empty state
// returns every interface.
func (t *Manager) InterfacesInState(ctx context.Context, state string) ([]winwifi.Interface, error) {
	interfaces, err := t.platform.Interfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing wifi interfaces: %w", err)
	}
	if state == "" {
		return interfaces, nil
	}

	want := winwifi.InterfaceState(strings.TrimPrefix(state, interfaceStatePrefix))
	matching := []winwifi.Interface{}
	for _, iface := range interfaces {
		if iface.State == want {
			matching = append(matching, iface)
		}
	}
	return matching, nil
}

func (t *Manager) ConnectedInterfaces(ctx context.Context) ([]winwifi.Connection, error) {
	interfaces, err := t.InterfacesInState(ctx, string(winwifi.InterfaceStateConnected))
	if err != nil {
		return nil, err
	}

	connections := []winwifi.Connection{}
	for _, iface := range interfaces {
		conn, err := t.platform.CurrentConnection(ctx, iface)
		if err != nil {
			t.logger.WithField("interface", iface.Name()).WithError(err).Error("Could not query current connection")
			continue
		}
		connections = append(connections, conn)
	}
	return connections, nil
}

// Profiles lists the stored profile names of all interfaces, first seen first.
func (t *Manager) Profiles(ctx context.Context) ([]string, error) {
	interfaces, err := t.platform.Interfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing wifi interfaces: %w", err)
	}

	seen := map[string]bool{}
	profiles := []string{}
	for _, iface := range interfaces {
		names, err := t.platform.Profiles(ctx, iface)
		if err != nil {
			if errors.Is(err, winwifi.ErrNotSupported) {
				return nil, err
			}
			t.logger.WithField("interface", iface.Name()).WithError(err).Error("Could not list profiles")
			continue
		}
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				profiles = append(profiles, name)
			}
		}
	}
	return profiles, nil
}
