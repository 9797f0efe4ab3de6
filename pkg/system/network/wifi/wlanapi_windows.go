//go:build windows

package network_wifi

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modwlanapi = windows.NewLazySystemDLL("wlanapi.dll")

	procWlanOpenHandle              = modwlanapi.NewProc("WlanOpenHandle")
	procWlanCloseHandle             = modwlanapi.NewProc("WlanCloseHandle")
	procWlanEnumInterfaces          = modwlanapi.NewProc("WlanEnumInterfaces")
	procWlanScan                    = modwlanapi.NewProc("WlanScan")
	procWlanGetAvailableNetworkList = modwlanapi.NewProc("WlanGetAvailableNetworkList")
	procWlanGetNetworkBssList       = modwlanapi.NewProc("WlanGetNetworkBssList")
	procWlanRegisterNotification    = modwlanapi.NewProc("WlanRegisterNotification")
	procWlanQueryInterface          = modwlanapi.NewProc("WlanQueryInterface")
	procWlanGetProfileList          = modwlanapi.NewProc("WlanGetProfileList")
	procWlanSetProfile              = modwlanapi.NewProc("WlanSetProfile")
	procWlanDeleteProfile           = modwlanapi.NewProc("WlanDeleteProfile")
	procWlanConnect                 = modwlanapi.NewProc("WlanConnect")
	procWlanDisconnect              = modwlanapi.NewProc("WlanDisconnect")
	procWlanFreeMemory              = modwlanapi.NewProc("WlanFreeMemory")
)

const (
	wlanClientVersion = 2

	dot11BssTypeInfrastructure = 1
	dot11BssTypeAny            = 3

	wlanIntfOpcodeCurrentConnection = 7

	wlanConnectionModeProfile = 0

	wlanAvailableNetworkConnected  = 0x1
	wlanAvailableNetworkHasProfile = 0x2
)

type dot11Ssid struct {
	Length uint32
	SSID   [32]byte
}

func (s *dot11Ssid) bytes() []byte {
	n := s.Length
	if n > uint32(len(s.SSID)) {
		n = uint32(len(s.SSID))
	}
	out := make([]byte, n)
	copy(out, s.SSID[:n])
	return out
}

type wlanInterfaceInfo struct {
	InterfaceGuid        windows.GUID
	InterfaceDescription [256]uint16
	State                uint32
}

type wlanInterfaceInfoList struct {
	NumberOfItems uint32
	Index         uint32
	InterfaceInfo [1]wlanInterfaceInfo
}

type wlanAvailableNetwork struct {
	ProfileName                 [256]uint16
	Dot11Ssid                   dot11Ssid
	Dot11BssType                uint32
	NumberOfBssids              uint32
	NetworkConnectable          int32
	WlanNotConnectableReason    uint32
	NumberOfPhyTypes            uint32
	Dot11PhyTypes               [8]uint32
	MorePhyTypes                int32
	WlanSignalQuality           uint32
	SecurityEnabled             int32
	Dot11DefaultAuthAlgorithm   uint32
	Dot11DefaultCipherAlgorithm uint32
	Flags                       uint32
	Reserved                    uint32
}

type wlanAvailableNetworkList struct {
	NumberOfItems uint32
	Index         uint32
	Network       [1]wlanAvailableNetwork
}

type wlanRateSet struct {
	RateSetLength uint32
	RateSet       [126]uint16
}

type wlanBssEntry struct {
	Dot11Ssid             dot11Ssid
	PhyID                 uint32
	Dot11Bssid            [6]byte
	Dot11BssType          uint32
	Dot11BssPhyType       uint32
	Rssi                  int32
	LinkQuality           uint32
	InRegDomain           uint8
	BeaconPeriod          uint16
	Timestamp             uint64
	HostTimestamp         uint64
	CapabilityInformation uint16
	ChCenterFrequency     uint32
	WlanRateSet           wlanRateSet
	IeOffset              uint32
	IeSize                uint32
}

type wlanBssList struct {
	TotalSize     uint32
	NumberOfItems uint32
	BssEntries    [1]wlanBssEntry
}

type wlanNotificationData struct {
	NotificationSource uint32
	NotificationCode   uint32
	InterfaceGuid      windows.GUID
	DataSize           uint32
	Data               uintptr
}

type wlanAssociationAttributes struct {
	Dot11Ssid         dot11Ssid
	Dot11BssType      uint32
	Dot11Bssid        [6]byte
	Dot11PhyType      uint32
	Dot11PhyIndex     uint32
	WlanSignalQuality uint32
	RxRate            uint32
	TxRate            uint32
}

type wlanSecurityAttributes struct {
	SecurityEnabled      int32
	OneXEnabled          int32
	Dot11AuthAlgorithm   uint32
	Dot11CipherAlgorithm uint32
}

type wlanConnectionAttributes struct {
	IsState                   uint32
	ConnectionMode            uint32
	ProfileName               [256]uint16
	WlanAssociationAttributes wlanAssociationAttributes
	WlanSecurityAttributes    wlanSecurityAttributes
}

type wlanProfileInfo struct {
	ProfileName [256]uint16
	Flags       uint32
}

type wlanProfileInfoList struct {
	NumberOfItems uint32
	Index         uint32
	ProfileInfo   [1]wlanProfileInfo
}

type wlanConnectionParameters struct {
	ConnectionMode   uint32
	Profile          *uint16
	Dot11Ssid        *dot11Ssid
	DesiredBssidList uintptr
	Dot11BssType     uint32
	Flags            uint32
}

// The wlan functions return a win32 error code rather than setting last error.
func wlanErr(r uintptr) error {
	if r != 0 {
		return syscall.Errno(r)
	}
	return nil
}

func wlanOpenHandle() (windows.Handle, error) {
	var negotiated uint32
	var h windows.Handle
	r, _, _ := procWlanOpenHandle.Call(
		wlanClientVersion, 0,
		uintptr(unsafe.Pointer(&negotiated)),
		uintptr(unsafe.Pointer(&h)))
	return h, wlanErr(r)
}

func wlanCloseHandle(h windows.Handle) error {
	r, _, _ := procWlanCloseHandle.Call(uintptr(h), 0)
	return wlanErr(r)
}

func wlanFreeMemory(p unsafe.Pointer) {
	procWlanFreeMemory.Call(uintptr(p))
}

func wlanEnumInterfaces(h windows.Handle) (*wlanInterfaceInfoList, error) {
	var list *wlanInterfaceInfoList
	r, _, _ := procWlanEnumInterfaces.Call(uintptr(h), 0, uintptr(unsafe.Pointer(&list)))
	return list, wlanErr(r)
}

func wlanScan(h windows.Handle, guid *windows.GUID) error {
	r, _, _ := procWlanScan.Call(uintptr(h), uintptr(unsafe.Pointer(guid)), 0, 0, 0)
	return wlanErr(r)
}

func wlanGetAvailableNetworkList(h windows.Handle, guid *windows.GUID) (*wlanAvailableNetworkList, error) {
	var list *wlanAvailableNetworkList
	r, _, _ := procWlanGetAvailableNetworkList.Call(uintptr(h), uintptr(unsafe.Pointer(guid)), 0, 0, uintptr(unsafe.Pointer(&list)))
	return list, wlanErr(r)
}

func wlanGetNetworkBssList(h windows.Handle, guid *windows.GUID) (*wlanBssList, error) {
	var list *wlanBssList
	r, _, _ := procWlanGetNetworkBssList.Call(
		uintptr(h), uintptr(unsafe.Pointer(guid)),
		0, dot11BssTypeAny, 0, 0,
		uintptr(unsafe.Pointer(&list)))
	return list, wlanErr(r)
}

func wlanRegisterNotification(h windows.Handle, source uint32, callback uintptr, context uintptr) error {
	var prev uint32
	r, _, _ := procWlanRegisterNotification.Call(
		uintptr(h), uintptr(source), 1,
		callback, context, 0,
		uintptr(unsafe.Pointer(&prev)))
	return wlanErr(r)
}

func wlanQueryCurrentConnection(h windows.Handle, guid *windows.GUID) (*wlanConnectionAttributes, error) {
	var size uint32
	var attrs *wlanConnectionAttributes
	var valueType uint32
	r, _, _ := procWlanQueryInterface.Call(
		uintptr(h), uintptr(unsafe.Pointer(guid)),
		wlanIntfOpcodeCurrentConnection, 0,
		uintptr(unsafe.Pointer(&size)),
		uintptr(unsafe.Pointer(&attrs)),
		uintptr(unsafe.Pointer(&valueType)))
	return attrs, wlanErr(r)
}

func wlanGetProfileList(h windows.Handle, guid *windows.GUID) (*wlanProfileInfoList, error) {
	var list *wlanProfileInfoList
	r, _, _ := procWlanGetProfileList.Call(uintptr(h), uintptr(unsafe.Pointer(guid)), 0, uintptr(unsafe.Pointer(&list)))
	return list, wlanErr(r)
}

func wlanSetProfile(h windows.Handle, guid *windows.GUID, profileXML string) (uint32, error) {
	xmlPtr, err := windows.UTF16PtrFromString(profileXML)
	if err != nil {
		return 0, err
	}
	var reason uint32
	r, _, _ := procWlanSetProfile.Call(
		uintptr(h), uintptr(unsafe.Pointer(guid)), 0,
		uintptr(unsafe.Pointer(xmlPtr)), 0, 1, 0,
		uintptr(unsafe.Pointer(&reason)))
	return reason, wlanErr(r)
}

func wlanDeleteProfile(h windows.Handle, guid *windows.GUID, name string) error {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}
	r, _, _ := procWlanDeleteProfile.Call(uintptr(h), uintptr(unsafe.Pointer(guid)), uintptr(unsafe.Pointer(namePtr)), 0)
	return wlanErr(r)
}

func wlanConnect(h windows.Handle, guid *windows.GUID, params *wlanConnectionParameters) error {
	r, _, _ := procWlanConnect.Call(uintptr(h), uintptr(unsafe.Pointer(guid)), uintptr(unsafe.Pointer(params)), 0)
	return wlanErr(r)
}

func wlanDisconnect(h windows.Handle, guid *windows.GUID) error {
	r, _, _ := procWlanDisconnect.Call(uintptr(h), uintptr(unsafe.Pointer(guid)), 0)
	return wlanErr(r)
}
