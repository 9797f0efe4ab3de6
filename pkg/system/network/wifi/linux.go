//go:build linux

package network_wifi

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/mdlayher/wifi"
	"github.com/sirupsen/logrus"
)

var _ winwifi.WlanPlatform = &LinuxPlatform{}

/* LinuxPlatform binds the wlan operations to nl80211 through
 * mdlayher/wifi, with scans done by iwlist since that also
 * gives us the raw information elements.
 *
 * There is no profile store on linux. Profiles set through
 * SetProfile live in memory for the life of the process, which
 * is enough for a connect that is not remembered.
 */
type LinuxPlatform struct {
	logger     logrus.FieldLogger
	scanner    IWListScanner
	dispatcher *dispatcher

	mu       sync.Mutex
	cells    map[string][]ScannedCell
	profiles map[string]map[string]winwifi.ProfileSpec
}

func newPlatform(logger logrus.FieldLogger) (winwifi.WlanPlatform, error) {
	return NewLinuxPlatform(logger), nil
}

func NewLinuxPlatform(logger logrus.FieldLogger) *LinuxPlatform {
	return &LinuxPlatform{
		logger:     logger,
		dispatcher: newDispatcher(),
		cells:      map[string][]ScannedCell{},
		profiles:   map[string]map[string]winwifi.ProfileSpec{},
	}
}

func (t *LinuxPlatform) withClient(f func(c *wifi.Client) error) error {
	c, err := wifi.New()
	if err != nil {
		return fmt.Errorf("could not init a wifi interface client: %w", err)
	}
	defer c.Close()
	return f(c)
}

func (t *LinuxPlatform) findInterface(c *wifi.Client, iface winwifi.Interface) (*wifi.Interface, error) {
	ifis, err := c.Interfaces()
	if err != nil {
		return nil, err
	}
	for _, ifi := range ifis {
		if ifi.Name == iface.ID {
			return ifi, nil
		}
	}
	return nil, fmt.Errorf("wifi interface %s not found", iface.ID)
}

func (t *LinuxPlatform) Interfaces(ctx context.Context) ([]winwifi.Interface, error) {
	interfaces := []winwifi.Interface{}
	err := t.withClient(func(c *wifi.Client) error {
		ifis, err := c.Interfaces()
		if err != nil {
			return err
		}
		for _, ifi := range ifis {
			// Skip phy-only entries without a netdev.
			if ifi.Name == "" || ifi.Type != wifi.InterfaceTypeStation {
				continue
			}
			state := winwifi.InterfaceStateDisconnected
			if _, err := c.BSS(ifi); err == nil {
				state = winwifi.InterfaceStateConnected
			}
			interfaces = append(interfaces, winwifi.Interface{
				ID:          ifi.Name,
				Index:       ifi.Index,
				Description: ifi.Name,
				State:       state,
			})
		}
		return nil
	})
	return interfaces, err
}

func (t *LinuxPlatform) OpenSession() (winwifi.WlanSession, error) {
	return linuxSession{t}, nil
}

type linuxSession struct {
	platform *LinuxPlatform
}

// Scan runs iwlist to completion, then reports scan_complete the way the
// windows service would.
func (s linuxSession) Scan(iface winwifi.Interface) error {
	cells, err := s.platform.scanner.Scan(context.Background(), iface.ID)
	if err != nil {
		go s.platform.dispatcher.notify(winwifi.NotificationToken{Code: "wlan_notification_acm_scan_fail", InterfaceID: iface.ID})
		return err
	}

	s.platform.mu.Lock()
	s.platform.cells[iface.ID] = cells
	s.platform.mu.Unlock()

	go s.platform.dispatcher.notify(winwifi.NotificationToken{Code: "wlan_notification_acm_scan_complete", InterfaceID: iface.ID})
	return nil
}

func (s linuxSession) Close() error {
	return nil
}

func (t *LinuxPlatform) lastScan(iface winwifi.Interface) []ScannedCell {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cells[iface.ID]
}

// AvailableNetworks groups the cells of the last scan by SSID.
func (t *LinuxPlatform) AvailableNetworks(ctx context.Context, iface winwifi.Interface) ([]winwifi.Network, error) {
	current, _ := t.CurrentConnection(ctx, iface)
	profiles := t.profileSet(iface)

	networks := []winwifi.Network{}
	index := map[string]int{}
	for _, cell := range t.lastScan(iface) {
		if len(cell.SSID) == 0 {
			continue
		}
		key := string(cell.SSID)
		i, ok := index[key]
		if !ok {
			n := winwifi.Network{
				SSID:            cell.SSID,
				InterfaceID:     iface.ID,
				Connectable:     true,
				SecurityEnabled: cell.Encrypted,
				AuthAlgorithm:   cell.Encryption,
				BssType:         "infrastructure",
				Connected:       current.SSID.Equal(cell.SSID),
			}
			for name, spec := range profiles {
				if spec.SSID.Equal(cell.SSID) {
					n.HasProfile = true
					n.ProfileName = name
				}
			}
			networks = append(networks, n)
			i = len(networks) - 1
			index[key] = i
		}
		networks[i].BssCount++
		if cell.LinkQuality > networks[i].SignalQuality {
			networks[i].SignalQuality = cell.LinkQuality
		}
	}
	return networks, nil
}

func (t *LinuxPlatform) BssList(ctx context.Context, iface winwifi.Interface) ([]winwifi.BssObservation, error) {
	cells := t.lastScan(iface)
	observations := make([]winwifi.BssObservation, 0, len(cells))
	for _, cell := range cells {
		observations = append(observations, cell.BssObservation)
	}
	return observations, nil
}

func (t *LinuxPlatform) RegisterNotification(cb func(winwifi.NotificationToken)) (winwifi.NotificationHandle, error) {
	return t.dispatcher.add(cb), nil
}

func (t *LinuxPlatform) UnregisterNotification(h winwifi.NotificationHandle) error {
	if !t.dispatcher.remove(h) {
		return fmt.Errorf("notification handle %d not registered", h)
	}
	return nil
}

func (t *LinuxPlatform) CurrentConnection(ctx context.Context, iface winwifi.Interface) (winwifi.Connection, error) {
	conn := winwifi.Connection{Interface: iface, State: winwifi.InterfaceStateDisconnected}
	err := t.withClient(func(c *wifi.Client) error {
		ifi, err := t.findInterface(c, iface)
		if err != nil {
			return err
		}
		bss, err := c.BSS(ifi)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		conn.State = winwifi.InterfaceStateConnected
		conn.SSID = winwifi.SSID(bss.SSID)
		conn.BSSID = bss.BSSID
		set := t.profileSet(iface)
		for _, name := range slices.Sorted(maps.Keys(set)) {
			if set[name].SSID.Equal(conn.SSID) {
				conn.ProfileName = name
				break
			}
		}

		if stations, err := c.StationInfo(ifi); err == nil && len(stations) > 0 {
			conn.Signal = QualityFromDBm(stations[0].Signal)
		}
		return nil
	})
	return conn, err
}

func (t *LinuxPlatform) profileSet(iface winwifi.Interface) map[string]winwifi.ProfileSpec {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := map[string]winwifi.ProfileSpec{}
	for name, spec := range t.profiles[iface.ID] {
		out[name] = spec
	}
	return out
}

func (t *LinuxPlatform) SetProfile(ctx context.Context, iface winwifi.Interface, spec winwifi.ProfileSpec) error {
	if spec.Name == "" {
		spec.Name = spec.SSID.String()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.profiles[iface.ID] == nil {
		t.profiles[iface.ID] = map[string]winwifi.ProfileSpec{}
	}
	t.profiles[iface.ID][spec.Name] = spec
	return nil
}

// Profiles returns the stored names sorted, so repeated listings agree.
func (t *LinuxPlatform) Profiles(ctx context.Context, iface winwifi.Interface) ([]string, error) {
	names := slices.Sorted(maps.Keys(t.profileSet(iface)))
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (t *LinuxPlatform) DeleteProfile(ctx context.Context, iface winwifi.Interface, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.profiles[iface.ID][name]; !ok {
		return fmt.Errorf("profile %q: %w", name, os.ErrNotExist)
	}
	delete(t.profiles[iface.ID], name)
	return nil
}

// Connect associates using the stored profile when there is one, otherwise
// as an open network. Completion is reported as connection_complete or
// connection_attempt_fail.
func (t *LinuxPlatform) Connect(ctx context.Context, iface winwifi.Interface, profileName string, ssid winwifi.SSID) error {
	spec, ok := t.profileSet(iface)[profileName]
	if !ok {
		spec = winwifi.ProfileSpec{Name: profileName, SSID: ssid}
	}
	if len(spec.SSID) == 0 {
		spec.SSID = ssid
	}

	err := t.withClient(func(c *wifi.Client) error {
		ifi, err := t.findInterface(c, iface)
		if err != nil {
			return err
		}
		if spec.Password != "" {
			return c.ConnectWPAPSK(ifi, string(spec.SSID), spec.Password)
		}
		return c.Connect(ifi, string(spec.SSID))
	})

	code := "wlan_notification_acm_connection_complete"
	if err != nil {
		code = "wlan_notification_acm_connection_attempt_fail"
	}
	go t.dispatcher.notify(winwifi.NotificationToken{Code: code, InterfaceID: iface.ID})
	return err
}

func (t *LinuxPlatform) Disconnect(ctx context.Context, iface winwifi.Interface) error {
	return t.withClient(func(c *wifi.Client) error {
		ifi, err := t.findInterface(c, iface)
		if err != nil {
			return err
		}
		return c.Disconnect(ifi)
	})
}
