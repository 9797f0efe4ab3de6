package winwifi

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"time"
	"unicode/utf8"
)

var ErrNotSupported = errors.New("operation not supported on this platform")

// SSID is the raw network identifier. It is not guaranteed to be valid text.
type SSID []byte

// Text returns the SSID as a string when the bytes are valid UTF-8.
func (s SSID) Text() (string, bool) {
	if !utf8.Valid(s) {
		return "", false
	}
	return string(s), true
}

func (s SSID) Equal(o SSID) bool {
	return bytes.Equal(s, o)
}

func (s SSID) String() string {
	if t, ok := s.Text(); ok {
		return t
	}
	return fmt.Sprintf("%q", []byte(s))
}

type InterfaceState string

const (
	InterfaceStateNotReady           InterfaceState = "not_ready"
	InterfaceStateConnected          InterfaceState = "connected"
	InterfaceStateAdHocNetworkFormed InterfaceState = "ad_hoc_network_formed"
	InterfaceStateDisconnecting      InterfaceState = "disconnecting"
	InterfaceStateDisconnected       InterfaceState = "disconnected"
	InterfaceStateAssociating        InterfaceState = "associating"
	InterfaceStateDiscovering        InterfaceState = "discovering"
	InterfaceStateAuthenticating     InterfaceState = "authenticating"
	InterfaceStateUnknown            InterfaceState = "unknown"
)

// A WLAN adapter. ID is the interface GUID on windows and the netdev name on linux.
type Interface struct {
	ID          string
	Index       int
	Description string
	State       InterfaceState
}

func (i Interface) Name() string {
	if i.Description != "" {
		return i.Description
	}
	return i.ID
}

type Network struct {
	SSID SSID
	// Name is filled in once the scan is done, when SSID decodes as UTF-8.
	Name            string
	InterfaceID     string
	ProfileName     string
	HasProfile      bool
	Connected       bool
	Connectable     bool
	SignalQuality   uint32
	SecurityEnabled bool
	AuthAlgorithm   string
	CipherAlgorithm string
	BssType         string
	BssCount        int
	BSSs            []Bss
}

func (n Network) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.SSID.String()
}

type InformationElement struct {
	ID   byte
	Body []byte
}

// Well known element ids.
const (
	ElementSSID            byte = 0
	ElementHTCapabilities  byte = 45
	ElementHTOperation     byte = 61
	ElementVHTCapabilities byte = 191
	ElementVHTOperation    byte = 192
	ElementVendorSpecific  byte = 221
)

// One access point sighting as reported by the platform.
type BssObservation struct {
	SSID                SSID
	BSSID               net.HardwareAddr
	RSSI                int32
	LinkQuality         uint32
	CenterFrequency     uint32 // kHz
	PhyType             string
	BeaconPeriod        uint16
	InformationElements []InformationElement
	// Set when the raw element buffer was malformed. InformationElements
	// then only holds the elements before the bad one.
	ElementsErr error
}

type Band string

const (
	Band2_4GHz Band = "2.4 GHz"
	Band5GHz   Band = "5 GHz"
)

// Bss is a BssObservation with the band and channel data derived from it.
type Bss struct {
	BssObservation
	Band     Band
	FortyMHz bool
	Channels []int
}

type BssError struct {
	BSSID net.HardwareAddr
	SSID  SSID
	Err   error
}

func (e BssError) Error() string {
	return fmt.Sprintf("bss %s (%s): %v", e.BSSID, e.SSID, e.Err)
}

func (e BssError) Unwrap() error {
	return e.Err
}

type ScanResult struct {
	Started  time.Time
	Finished time.Time
	Networks []Network
	Skipped  []BssError
}

type NotificationToken struct {
	Code        string
	InterfaceID string
}

func (t NotificationToken) String() string {
	return t.Code
}

// NotificationHandle identifies one active registration with the platform.
type NotificationHandle uintptr

// The association an interface currently holds.
type Connection struct {
	Interface   Interface
	State       InterfaceState
	ProfileName string
	SSID        SSID
	BSSID       net.HardwareAddr
	Signal      uint32
}

type ProfileSpec struct {
	Name     string
	SSID     SSID
	Password string
}
