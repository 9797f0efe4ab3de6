//go:build windows

package network_wifi

import (
	"context"
	"fmt"
	"net"
	"sync"
	"unsafe"

	winwifi "github.com/dogeorg/winwifi/pkg"
	network_ie "github.com/dogeorg/winwifi/pkg/system/network/ie"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

var _ winwifi.WlanPlatform = &WindowsPlatform{}

// A single callback serves every registration, windows only hands out a
// limited number of them per process. The context pointer carries the
// registration's handle.
var (
	notifications    = newDispatcher()
	callbackOnce     sync.Once
	notificationFunc uintptr
)

func notificationCallback() uintptr {
	callbackOnce.Do(func() {
		notificationFunc = windows.NewCallback(func(data *wlanNotificationData, ctx uintptr) uintptr {
			if data == nil {
				return 0
			}
			cb, ok := notifications.get(winwifi.NotificationHandle(ctx))
			if !ok {
				return 0
			}
			cb(winwifi.NotificationToken{
				Code:        notificationName(data.NotificationSource, data.NotificationCode),
				InterfaceID: data.InterfaceGuid.String(),
			})
			return 0
		})
	})
	return notificationFunc
}

// WindowsPlatform calls into wlanapi.dll. Queries share one client handle,
// scans and notification registrations get their own.
type WindowsPlatform struct {
	logger logrus.FieldLogger

	mu            sync.Mutex
	handle        windows.Handle
	registrations map[winwifi.NotificationHandle]windows.Handle
}

func newPlatform(logger logrus.FieldLogger) (winwifi.WlanPlatform, error) {
	return NewWindowsPlatform(logger)
}

func NewWindowsPlatform(logger logrus.FieldLogger) (*WindowsPlatform, error) {
	if err := modwlanapi.Load(); err != nil {
		return nil, fmt.Errorf("loading wlanapi.dll: %w", err)
	}
	h, err := wlanOpenHandle()
	if err != nil {
		return nil, fmt.Errorf("opening wlan handle: %w", err)
	}
	return &WindowsPlatform{
		logger:        logger,
		handle:        h,
		registrations: map[winwifi.NotificationHandle]windows.Handle{},
	}, nil
}

// Close releases the shared handle and any registration left behind.
func (t *WindowsPlatform) Close() error {
	t.mu.Lock()
	regs := t.registrations
	t.registrations = map[winwifi.NotificationHandle]windows.Handle{}
	t.mu.Unlock()

	for id, h := range regs {
		t.logger.WithField("handle", id).Debug("closing leftover notification registration")
		notifications.remove(id)
		wlanCloseHandle(h)
	}
	return wlanCloseHandle(t.handle)
}

func parseGUID(iface winwifi.Interface) (*windows.GUID, error) {
	guid, err := windows.GUIDFromString(iface.ID)
	if err != nil {
		return nil, fmt.Errorf("interface id %q: %w", iface.ID, err)
	}
	return &guid, nil
}

func (t *WindowsPlatform) Interfaces(ctx context.Context) ([]winwifi.Interface, error) {
	list, err := wlanEnumInterfaces(t.handle)
	if err != nil {
		return nil, fmt.Errorf("WlanEnumInterfaces: %w", err)
	}
	defer wlanFreeMemory(unsafe.Pointer(list))

	interfaces := []winwifi.Interface{}
	for i, info := range unsafe.Slice(&list.InterfaceInfo[0], list.NumberOfItems) {
		interfaces = append(interfaces, winwifi.Interface{
			ID:          info.InterfaceGuid.String(),
			Index:       i,
			Description: windows.UTF16ToString(info.InterfaceDescription[:]),
			State:       interfaceState(info.State),
		})
	}
	return interfaces, nil
}

func (t *WindowsPlatform) OpenSession() (winwifi.WlanSession, error) {
	h, err := wlanOpenHandle()
	if err != nil {
		return nil, fmt.Errorf("WlanOpenHandle: %w", err)
	}
	return &windowsSession{handle: h}, nil
}

type windowsSession struct {
	handle windows.Handle
}

func (s *windowsSession) Scan(iface winwifi.Interface) error {
	guid, err := parseGUID(iface)
	if err != nil {
		return err
	}
	if err := wlanScan(s.handle, guid); err != nil {
		return fmt.Errorf("WlanScan: %w", err)
	}
	return nil
}

func (s *windowsSession) Close() error {
	return wlanCloseHandle(s.handle)
}

func (t *WindowsPlatform) AvailableNetworks(ctx context.Context, iface winwifi.Interface) ([]winwifi.Network, error) {
	guid, err := parseGUID(iface)
	if err != nil {
		return nil, err
	}
	list, err := wlanGetAvailableNetworkList(t.handle, guid)
	if err != nil {
		return nil, fmt.Errorf("WlanGetAvailableNetworkList: %w", err)
	}
	defer wlanFreeMemory(unsafe.Pointer(list))

	networks := []winwifi.Network{}
	for _, n := range unsafe.Slice(&list.Network[0], list.NumberOfItems) {
		networks = append(networks, winwifi.Network{
			SSID:            winwifi.SSID(n.Dot11Ssid.bytes()),
			InterfaceID:     iface.ID,
			ProfileName:     windows.UTF16ToString(n.ProfileName[:]),
			HasProfile:      n.Flags&wlanAvailableNetworkHasProfile != 0,
			Connected:       n.Flags&wlanAvailableNetworkConnected != 0,
			Connectable:     n.NetworkConnectable != 0,
			SignalQuality:   n.WlanSignalQuality,
			SecurityEnabled: n.SecurityEnabled != 0,
			AuthAlgorithm:   enumName(authAlgorithms, n.Dot11DefaultAuthAlgorithm),
			CipherAlgorithm: enumName(cipherAlgorithms, n.Dot11DefaultCipherAlgorithm),
			BssType:         enumName(bssTypes, n.Dot11BssType),
			BssCount:        int(n.NumberOfBssids),
		})
	}
	return networks, nil
}

func (t *WindowsPlatform) BssList(ctx context.Context, iface winwifi.Interface) ([]winwifi.BssObservation, error) {
	guid, err := parseGUID(iface)
	if err != nil {
		return nil, err
	}
	list, err := wlanGetNetworkBssList(t.handle, guid)
	if err != nil {
		return nil, fmt.Errorf("WlanGetNetworkBssList: %w", err)
	}
	defer wlanFreeMemory(unsafe.Pointer(list))

	entries := unsafe.Slice(&list.BssEntries[0], list.NumberOfItems)
	observations := make([]winwifi.BssObservation, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		o := winwifi.BssObservation{
			SSID:            winwifi.SSID(e.Dot11Ssid.bytes()),
			BSSID:           net.HardwareAddr(append([]byte(nil), e.Dot11Bssid[:]...)),
			RSSI:            e.Rssi,
			LinkQuality:     e.LinkQuality,
			CenterFrequency: e.ChCenterFrequency,
			PhyType:         phyTypeName(e.Dot11BssPhyType),
			BeaconPeriod:    e.BeaconPeriod,
		}

		if e.IeSize > 0 {
			raw := unsafe.Slice((*byte)(unsafe.Add(unsafe.Pointer(e), e.IeOffset)), e.IeSize)
			o.InformationElements, o.ElementsErr = network_ie.ParseElements(raw)
		}
		observations = append(observations, o)
	}
	return observations, nil
}

func (t *WindowsPlatform) RegisterNotification(cb func(winwifi.NotificationToken)) (winwifi.NotificationHandle, error) {
	h, err := wlanOpenHandle()
	if err != nil {
		return 0, fmt.Errorf("WlanOpenHandle: %w", err)
	}

	id := notifications.add(cb)
	if err := wlanRegisterNotification(h, notificationSourceACM|notificationSourceMSM, notificationCallback(), uintptr(id)); err != nil {
		notifications.remove(id)
		wlanCloseHandle(h)
		return 0, fmt.Errorf("WlanRegisterNotification: %w", err)
	}

	t.mu.Lock()
	t.registrations[id] = h
	t.mu.Unlock()
	return id, nil
}

func (t *WindowsPlatform) UnregisterNotification(id winwifi.NotificationHandle) error {
	t.mu.Lock()
	h, ok := t.registrations[id]
	delete(t.registrations, id)
	t.mu.Unlock()

	notifications.remove(id)
	if !ok {
		return fmt.Errorf("notification handle %d not registered", id)
	}

	err := wlanRegisterNotification(h, notificationSourceNone, 0, 0)
	if closeErr := wlanCloseHandle(h); err == nil {
		err = closeErr
	}
	return err
}

func (t *WindowsPlatform) CurrentConnection(ctx context.Context, iface winwifi.Interface) (winwifi.Connection, error) {
	conn := winwifi.Connection{Interface: iface, State: iface.State}
	guid, err := parseGUID(iface)
	if err != nil {
		return conn, err
	}
	attrs, err := wlanQueryCurrentConnection(t.handle, guid)
	if err != nil {
		return conn, fmt.Errorf("WlanQueryInterface: %w", err)
	}
	defer wlanFreeMemory(unsafe.Pointer(attrs))

	assoc := &attrs.WlanAssociationAttributes
	conn.State = interfaceState(attrs.IsState)
	conn.ProfileName = windows.UTF16ToString(attrs.ProfileName[:])
	conn.SSID = winwifi.SSID(assoc.Dot11Ssid.bytes())
	conn.BSSID = net.HardwareAddr(append([]byte(nil), assoc.Dot11Bssid[:]...))
	conn.Signal = assoc.WlanSignalQuality
	return conn, nil
}

func (t *WindowsPlatform) SetProfile(ctx context.Context, iface winwifi.Interface, spec winwifi.ProfileSpec) error {
	guid, err := parseGUID(iface)
	if err != nil {
		return err
	}
	profile, err := ProfileXML(spec)
	if err != nil {
		return fmt.Errorf("rendering profile: %w", err)
	}
	reason, err := wlanSetProfile(t.handle, guid, profile)
	if err != nil {
		return fmt.Errorf("WlanSetProfile (reason %d): %w", reason, err)
	}
	return nil
}

func (t *WindowsPlatform) Profiles(ctx context.Context, iface winwifi.Interface) ([]string, error) {
	guid, err := parseGUID(iface)
	if err != nil {
		return nil, err
	}
	list, err := wlanGetProfileList(t.handle, guid)
	if err != nil {
		return nil, fmt.Errorf("WlanGetProfileList: %w", err)
	}
	defer wlanFreeMemory(unsafe.Pointer(list))

	names := []string{}
	for _, p := range unsafe.Slice(&list.ProfileInfo[0], list.NumberOfItems) {
		names = append(names, windows.UTF16ToString(p.ProfileName[:]))
	}
	return names, nil
}

func (t *WindowsPlatform) DeleteProfile(ctx context.Context, iface winwifi.Interface, name string) error {
	guid, err := parseGUID(iface)
	if err != nil {
		return err
	}
	if err := wlanDeleteProfile(t.handle, guid, name); err != nil {
		return fmt.Errorf("WlanDeleteProfile %q: %w", name, err)
	}
	return nil
}

func (t *WindowsPlatform) Connect(ctx context.Context, iface winwifi.Interface, profileName string, ssid winwifi.SSID) error {
	guid, err := parseGUID(iface)
	if err != nil {
		return err
	}
	name, err := windows.UTF16PtrFromString(profileName)
	if err != nil {
		return err
	}

	params := wlanConnectionParameters{
		ConnectionMode: wlanConnectionModeProfile,
		Profile:        name,
		Dot11BssType:   dot11BssTypeInfrastructure,
	}
	if len(ssid) > 0 && len(ssid) <= 32 {
		s := dot11Ssid{Length: uint32(len(ssid))}
		copy(s.SSID[:], ssid)
		params.Dot11Ssid = &s
	}

	if err := wlanConnect(t.handle, guid, &params); err != nil {
		return fmt.Errorf("WlanConnect: %w", err)
	}
	return nil
}

func (t *WindowsPlatform) Disconnect(ctx context.Context, iface winwifi.Interface) error {
	guid, err := parseGUID(iface)
	if err != nil {
		return err
	}
	if err := wlanDisconnect(t.handle, guid); err != nil {
		return fmt.Errorf("WlanDisconnect: %w", err)
	}
	return nil
}
