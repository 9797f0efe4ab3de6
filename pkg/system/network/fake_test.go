package network

import (
	"context"
	"sync"

	winwifi "github.com/dogeorg/winwifi/pkg"
)

// fakePlatform records the order of calls and completes scans by firing
// scan_complete on every registered callback.
type fakePlatform struct {
	mu        sync.Mutex
	calls     []string
	callbacks map[winwifi.NotificationHandle]func(winwifi.NotificationToken)
	next      winwifi.NotificationHandle

	interfaces    []winwifi.Interface
	interfacesErr error
	networks      map[string][]winwifi.Network
	networksErr   map[string]error
	bss           map[string][]winwifi.BssObservation
	scanErr       map[string]error
	connections   map[string]winwifi.Connection
	profiles      map[string][]string
	profilesErr   error

	// When set, scans never produce a notification.
	silent bool
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		callbacks:   map[winwifi.NotificationHandle]func(winwifi.NotificationToken){},
		networks:    map[string][]winwifi.Network{},
		networksErr: map[string]error{},
		bss:         map[string][]winwifi.BssObservation{},
		scanErr:     map[string]error{},
		connections: map[string]winwifi.Connection{},
		profiles:    map[string][]string{},
	}
}

func (f *fakePlatform) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePlatform) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakePlatform) activeRegistrations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.callbacks)
}

func (f *fakePlatform) Interfaces(ctx context.Context) ([]winwifi.Interface, error) {
	f.record("interfaces")
	return f.interfaces, f.interfacesErr
}

func (f *fakePlatform) AvailableNetworks(ctx context.Context, iface winwifi.Interface) ([]winwifi.Network, error) {
	f.record("networks:" + iface.ID)
	return f.networks[iface.ID], f.networksErr[iface.ID]
}

func (f *fakePlatform) BssList(ctx context.Context, iface winwifi.Interface) ([]winwifi.BssObservation, error) {
	f.record("bss:" + iface.ID)
	return f.bss[iface.ID], nil
}

func (f *fakePlatform) OpenSession() (winwifi.WlanSession, error) {
	f.record("open")
	return fakeSession{f}, nil
}

type fakeSession struct {
	f *fakePlatform
}

func (s fakeSession) Scan(iface winwifi.Interface) error {
	s.f.record("scan:" + iface.ID)
	if err := s.f.scanErr[iface.ID]; err != nil {
		return err
	}
	if !s.f.silent {
		go s.f.fire(winwifi.NotificationToken{Code: "wlan_notification_acm_scan_complete", InterfaceID: iface.ID})
	}
	return nil
}

func (s fakeSession) Close() error {
	s.f.record("close")
	return nil
}

func (f *fakePlatform) fire(tok winwifi.NotificationToken) {
	f.mu.Lock()
	cbs := []func(winwifi.NotificationToken){}
	for _, cb := range f.callbacks {
		cbs = append(cbs, cb)
	}
	f.mu.Unlock()
	for _, cb := range cbs {
		cb(tok)
	}
}

func (f *fakePlatform) RegisterNotification(cb func(winwifi.NotificationToken)) (winwifi.NotificationHandle, error) {
	f.record("register")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.callbacks[f.next] = cb
	return f.next, nil
}

func (f *fakePlatform) UnregisterNotification(h winwifi.NotificationHandle) error {
	f.record("unregister")
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.callbacks, h)
	return nil
}

func (f *fakePlatform) CurrentConnection(ctx context.Context, iface winwifi.Interface) (winwifi.Connection, error) {
	return f.connections[iface.ID], nil
}

func (f *fakePlatform) SetProfile(ctx context.Context, iface winwifi.Interface, spec winwifi.ProfileSpec) error {
	return winwifi.ErrNotSupported
}

func (f *fakePlatform) Connect(ctx context.Context, iface winwifi.Interface, profileName string, ssid winwifi.SSID) error {
	return winwifi.ErrNotSupported
}

func (f *fakePlatform) Disconnect(ctx context.Context, iface winwifi.Interface) error {
	return winwifi.ErrNotSupported
}

func (f *fakePlatform) Profiles(ctx context.Context, iface winwifi.Interface) ([]string, error) {
	return f.profiles[iface.ID], f.profilesErr
}

func (f *fakePlatform) DeleteProfile(ctx context.Context, iface winwifi.Interface, name string) error {
	return winwifi.ErrNotSupported
}
