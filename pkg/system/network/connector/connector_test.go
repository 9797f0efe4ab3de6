package network_connector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	mu         sync.Mutex
	calls      []string
	callbacks  map[winwifi.NotificationHandle]func(winwifi.NotificationToken)
	next       winwifi.NotificationHandle
	interfaces []winwifi.Interface
	profiles   map[string][]string
	specs      []winwifi.ProfileSpec
	connectErr error
	// Event fired after a successful Connect, empty for none.
	completion string
	disconnect map[string]error
}

func newFakePlatform(interfaces ...winwifi.Interface) *fakePlatform {
	return &fakePlatform{
		callbacks:  map[winwifi.NotificationHandle]func(winwifi.NotificationToken){},
		interfaces: interfaces,
		profiles:   map[string][]string{},
		completion: "wlan_notification_acm_connection_complete",
		disconnect: map[string]error{},
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

func (f *fakePlatform) Interfaces(ctx context.Context) ([]winwifi.Interface, error) {
	return f.interfaces, nil
}

func (f *fakePlatform) AvailableNetworks(ctx context.Context, iface winwifi.Interface) ([]winwifi.Network, error) {
	return nil, nil
}

func (f *fakePlatform) BssList(ctx context.Context, iface winwifi.Interface) ([]winwifi.BssObservation, error) {
	return nil, nil
}

func (f *fakePlatform) OpenSession() (winwifi.WlanSession, error) {
	return nil, winwifi.ErrNotSupported
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

func (f *fakePlatform) CurrentConnection(ctx context.Context, iface winwifi.Interface) (winwifi.Connection, error) {
	return winwifi.Connection{}, nil
}

func (f *fakePlatform) SetProfile(ctx context.Context, iface winwifi.Interface, spec winwifi.ProfileSpec) error {
	f.record("set_profile:" + spec.Name)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.specs = append(f.specs, spec)
	f.profiles[iface.ID] = append(f.profiles[iface.ID], spec.Name)
	return nil
}

func (f *fakePlatform) Connect(ctx context.Context, iface winwifi.Interface, profileName string, ssid winwifi.SSID) error {
	f.record("connect:" + profileName)
	if f.connectErr != nil {
		return f.connectErr
	}
	if f.completion != "" {
		go f.fire(winwifi.NotificationToken{Code: f.completion, InterfaceID: iface.ID})
	}
	return nil
}

func (f *fakePlatform) Disconnect(ctx context.Context, iface winwifi.Interface) error {
	f.record("disconnect:" + iface.ID)
	return f.disconnect[iface.ID]
}

func (f *fakePlatform) Profiles(ctx context.Context, iface winwifi.Interface) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.profiles[iface.ID]...), nil
}

func (f *fakePlatform) DeleteProfile(ctx context.Context, iface winwifi.Interface, name string) error {
	f.record("delete_profile:" + iface.ID + ":" + name)
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := []string{}
	for _, p := range f.profiles[iface.ID] {
		if p != name {
			kept = append(kept, p)
		}
	}
	f.profiles[iface.ID] = kept
	return nil
}

func newTestConnector(p *fakePlatform, timeout time.Duration) *Connector {
	logger, _ := test.NewNullLogger()
	return NewNetworkConnector(p, winwifi.ConnectConfig{Timeout: timeout}, logger, nil)
}

func TestConnectWithPasswordNotRemembered(t *testing.T) {
	p := newFakePlatform(winwifi.Interface{ID: "if0"})
	c := newTestConnector(p, 5*time.Second)

	err := c.Connect(context.Background(), winwifi.ConnectRequest{SSID: winwifi.SSID("home"), Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"set_profile:home",
		"register",
		"connect:home",
		"unregister",
		"delete_profile:if0:home",
	}, p.Calls())
	require.Len(t, p.specs, 1)
	assert.Equal(t, "secret", p.specs[0].Password)
}

func TestConnectRememberedKeepsProfile(t *testing.T) {
	p := newFakePlatform(winwifi.Interface{ID: "if0"})
	c := newTestConnector(p, 5*time.Second)

	err := c.Connect(context.Background(), winwifi.ConnectRequest{SSID: winwifi.SSID("home"), Password: "secret", Remember: true})
	require.NoError(t, err)
	assert.NotContains(t, p.Calls(), "delete_profile:if0:home")
	profiles, _ := p.Profiles(context.Background(), winwifi.Interface{ID: "if0"})
	assert.Equal(t, []string{"home"}, profiles)
}

func TestConnectReusesExistingProfile(t *testing.T) {
	p := newFakePlatform(winwifi.Interface{ID: "if0"})
	p.profiles["if0"] = []string{"home"}
	c := newTestConnector(p, 5*time.Second)

	require.NoError(t, c.Connect(context.Background(), winwifi.ConnectRequest{SSID: winwifi.SSID("home")}))
	assert.Equal(t, []string{"register", "connect:home", "unregister"}, p.Calls())
}

func TestConnectOpenNetwork(t *testing.T) {
	p := newFakePlatform(winwifi.Interface{ID: "if0"})
	c := newTestConnector(p, 5*time.Second)

	require.NoError(t, c.Connect(context.Background(), winwifi.ConnectRequest{SSID: winwifi.SSID("cafe")}))
	require.Len(t, p.specs, 1)
	assert.Empty(t, p.specs[0].Password)
	assert.Contains(t, p.Calls(), "delete_profile:if0:cafe")
}

func TestConnectTimeout(t *testing.T) {
	p := newFakePlatform(winwifi.Interface{ID: "if0"})
	p.completion = "wlan_notification_acm_connection_attempt_fail"
	c := newTestConnector(p, 200*time.Millisecond)

	err := c.Connect(context.Background(), winwifi.ConnectRequest{SSID: winwifi.SSID("home"), Password: "x"})
	require.ErrorIs(t, err, ErrConnectTimeout)
	assert.Contains(t, p.Calls(), "unregister")
	assert.Contains(t, p.Calls(), "delete_profile:if0:home")
}

func TestConnectFailure(t *testing.T) {
	p := newFakePlatform(winwifi.Interface{ID: "if0"})
	p.connectErr = errors.New("refused")
	c := newTestConnector(p, 5*time.Second)

	err := c.Connect(context.Background(), winwifi.ConnectRequest{SSID: winwifi.SSID("home"), Password: "x"})
	require.ErrorIs(t, err, p.connectErr)
	assert.Contains(t, p.Calls(), "unregister")
}

func TestConnectNoInterface(t *testing.T) {
	c := newTestConnector(newFakePlatform(), time.Second)
	err := c.Connect(context.Background(), winwifi.ConnectRequest{SSID: winwifi.SSID("home")})
	assert.ErrorIs(t, err, ErrNoInterface)

	assert.ErrorIs(t, c.Forget(context.Background(), winwifi.SSID("home")), ErrNoInterface)
}

func TestDisconnect(t *testing.T) {
	p := newFakePlatform(
		winwifi.Interface{ID: "a", State: winwifi.InterfaceStateConnected},
		winwifi.Interface{ID: "b", State: winwifi.InterfaceStateDisconnected},
		winwifi.Interface{ID: "c", State: winwifi.InterfaceStateConnected},
	)
	p.disconnect["a"] = errors.New("busy")
	c := newTestConnector(p, time.Second)

	err := c.Disconnect(context.Background())
	require.ErrorIs(t, err, p.disconnect["a"])
	assert.Equal(t, []string{"disconnect:a", "disconnect:c"}, p.Calls())
}

func TestForget(t *testing.T) {
	p := newFakePlatform(winwifi.Interface{ID: "a"}, winwifi.Interface{ID: "b"})
	p.profiles["a"] = []string{"home", "office"}
	p.profiles["b"] = []string{"office"}
	c := newTestConnector(p, time.Second)

	require.NoError(t, c.Forget(context.Background(), winwifi.SSID("office"), winwifi.SSID("missing")))
	assert.Equal(t, []string{"delete_profile:a:office", "delete_profile:b:office"}, p.Calls())
	assert.Equal(t, []string{"home"}, p.profiles["a"])
}

func TestParseRemember(t *testing.T) {
	for _, s := range []string{"", " ", "false", "F", "0", "no", "N"} {
		assert.False(t, ParseRemember(s), s)
	}
	for _, s := range []string{"true", "1", "yes", "remember"} {
		assert.True(t, ParseRemember(s), s)
	}
}
