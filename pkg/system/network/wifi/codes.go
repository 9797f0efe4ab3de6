package network_wifi

import (
	"fmt"

	winwifi "github.com/dogeorg/winwifi/pkg"
)

// WLAN_NOTIFICATION_SOURCE_* bits.
const (
	notificationSourceNone uint32 = 0x00
	notificationSourceOneX uint32 = 0x04
	notificationSourceACM  uint32 = 0x08
	notificationSourceMSM  uint32 = 0x10
)

var acmNotifications = []string{
	"start",
	"autoconf_enabled",
	"autoconf_disabled",
	"background_scan_enabled",
	"background_scan_disabled",
	"bss_type_change",
	"power_setting_change",
	"scan_complete",
	"scan_fail",
	"connection_start",
	"connection_complete",
	"connection_attempt_fail",
	"filter_list_change",
	"interface_arrival",
	"interface_removal",
	"profile_change",
	"profile_name_change",
	"profiles_exhausted",
	"network_not_available",
	"network_available",
	"disconnecting",
	"disconnected",
	"adhoc_network_state_change",
	"profile_unblocked",
	"screen_power_change",
	"profile_blocked",
	"scan_list_refresh",
}

var msmNotifications = []string{
	"start",
	"associating",
	"associated",
	"authenticating",
	"connected",
	"roaming_start",
	"roaming_end",
	"radio_state_change",
	"signal_quality_change",
	"disassociating",
	"disconnected",
	"peer_join",
	"peer_leave",
	"adapter_removal",
	"adapter_operation_mode_change",
	"link_degraded",
	"link_improved",
}

// notificationName maps a raw source and code to the name a waiter matches on.
func notificationName(source, code uint32) string {
	var prefix string
	var names []string
	switch source {
	case notificationSourceACM:
		prefix, names = "wlan_notification_acm_", acmNotifications
	case notificationSourceMSM:
		prefix, names = "wlan_notification_msm_", msmNotifications
	case notificationSourceOneX:
		return fmt.Sprintf("wlan_notification_onex_%d", code)
	default:
		return fmt.Sprintf("wlan_notification_source_%#x_%d", source, code)
	}
	if int(code) < len(names) {
		return prefix + names[code]
	}
	return fmt.Sprintf("%s%d", prefix, code)
}

var interfaceStates = []winwifi.InterfaceState{
	winwifi.InterfaceStateNotReady,
	winwifi.InterfaceStateConnected,
	winwifi.InterfaceStateAdHocNetworkFormed,
	winwifi.InterfaceStateDisconnecting,
	winwifi.InterfaceStateDisconnected,
	winwifi.InterfaceStateAssociating,
	winwifi.InterfaceStateDiscovering,
	winwifi.InterfaceStateAuthenticating,
}

func interfaceState(v uint32) winwifi.InterfaceState {
	if int(v) < len(interfaceStates) {
		return interfaceStates[v]
	}
	return winwifi.InterfaceStateUnknown
}

var bssTypes = map[uint32]string{
	1: "infrastructure",
	2: "independent",
	3: "any",
}

var authAlgorithms = map[uint32]string{
	1:  "open",
	2:  "shared_key",
	3:  "wpa",
	4:  "wpa_psk",
	5:  "wpa_none",
	6:  "rsna",
	7:  "rsna_psk",
	8:  "wpa3",
	9:  "wpa3_sae",
	10: "owe",
	11: "wpa3_ent",
}

var cipherAlgorithms = map[uint32]string{
	0x00:  "none",
	0x01:  "wep40",
	0x02:  "tkip",
	0x04:  "ccmp",
	0x05:  "wep104",
	0x06:  "bip",
	0x08:  "gcmp",
	0x09:  "gcmp_256",
	0x0a:  "ccmp_256",
	0x100: "use_group",
	0x101: "wep",
}

var phyTypes = []string{
	"unknown", "fhss", "dsss", "irbaseband", "ofdm", "hrdsss", "erp", "ht", "vht", "dmg", "he", "eht",
}

func enumName(names map[uint32]string, v uint32) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", v)
}

func phyTypeName(v uint32) string {
	if int(v) < len(phyTypes) {
		return phyTypes[v]
	}
	return fmt.Sprintf("unknown(%d)", v)
}
