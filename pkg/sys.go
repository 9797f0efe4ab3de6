package winwifi

import "context"

// see ./system/network/wifi for implementations

// enumerate adapters and whatever the adapter
// currently knows about nearby networks
type WlanEnumerator interface {
	Interfaces(ctx context.Context) ([]Interface, error)
	AvailableNetworks(ctx context.Context, iface Interface) ([]Network, error)
	BssList(ctx context.Context, iface Interface) ([]BssObservation, error)
}

// a short lived client handle used to trigger scans
type WlanSession interface {
	Scan(iface Interface) error
	Close() error
}

type WlanSessionOpener interface {
	OpenSession() (WlanSession, error)
}

// deliver platform notifications to cb, which may be
// called from a thread the caller does not control
type Notifier interface {
	RegisterNotification(cb func(NotificationToken)) (NotificationHandle, error)
	UnregisterNotification(h NotificationHandle) error
}

// connection control, delegated to the OS
type WlanController interface {
	CurrentConnection(ctx context.Context, iface Interface) (Connection, error)
	SetProfile(ctx context.Context, iface Interface, spec ProfileSpec) error
	Connect(ctx context.Context, iface Interface, profileName string, ssid SSID) error
	Disconnect(ctx context.Context, iface Interface) error
	Profiles(ctx context.Context, iface Interface) ([]string, error)
	DeleteProfile(ctx context.Context, iface Interface, name string) error
}

type WlanPlatform interface {
	WlanEnumerator
	WlanSessionOpener
	Notifier
	WlanController
}

// see ./system/network
type NetworkManager interface {
	ScanNetworks(ctx context.Context, ssid SSID) (ScanResult, error)
	ConnectedInterfaces(ctx context.Context) ([]Connection, error)
	InterfacesInState(ctx context.Context, state string) ([]Interface, error)
	Profiles(ctx context.Context) ([]string, error)
}

type ConnectRequest struct {
	SSID     SSID
	Password string
	Remember bool
}

// see ./system/network/connector
type NetworkConnector interface {
	Connect(ctx context.Context, req ConnectRequest) error
	Disconnect(ctx context.Context) error
	Forget(ctx context.Context, ssids ...SSID) error
}
