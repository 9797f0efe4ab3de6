package network_wifi

import (
	"encoding/xml"
	"strings"
	"testing"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationName(t *testing.T) {
	tests := []struct {
		source, code uint32
		want         string
	}{
		{notificationSourceACM, 7, "wlan_notification_acm_scan_complete"},
		{notificationSourceACM, 8, "wlan_notification_acm_scan_fail"},
		{notificationSourceACM, 10, "wlan_notification_acm_connection_complete"},
		{notificationSourceACM, 21, "wlan_notification_acm_disconnected"},
		{notificationSourceACM, 99, "wlan_notification_acm_99"},
		{notificationSourceMSM, 4, "wlan_notification_msm_connected"},
		{notificationSourceOneX, 1, "wlan_notification_onex_1"},
		{0x40, 2, "wlan_notification_source_0x40_2"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, notificationName(tt.source, tt.code))
	}
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, winwifi.InterfaceStateConnected, interfaceState(1))
	assert.Equal(t, winwifi.InterfaceStateAuthenticating, interfaceState(7))
	assert.Equal(t, winwifi.InterfaceStateUnknown, interfaceState(8))

	assert.Equal(t, "rsna_psk", enumName(authAlgorithms, 7))
	assert.Equal(t, "ccmp", enumName(cipherAlgorithms, 4))
	assert.Equal(t, "unknown(42)", enumName(bssTypes, 42))
	assert.Equal(t, "ht", phyTypeName(7))
	assert.Equal(t, "unknown(64)", phyTypeName(64))
}

func TestProfileXML(t *testing.T) {
	out, err := ProfileXML(winwifi.ProfileSpec{SSID: winwifi.SSID("home"), Password: "hunter22"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, xml.Header))

	var p wlanProfile
	require.NoError(t, xml.Unmarshal([]byte(out), &p))
	assert.Equal(t, "home", p.Name)
	assert.Equal(t, "686F6D65", p.SSIDConfig.SSID.Hex)
	assert.Equal(t, "home", p.SSIDConfig.SSID.Name)
	assert.Equal(t, "WPA2PSK", p.MSM.Security.AuthEncryption.Authentication)
	assert.Equal(t, "AES", p.MSM.Security.AuthEncryption.Encryption)
	require.NotNil(t, p.MSM.Security.SharedKey)
	assert.Equal(t, "hunter22", p.MSM.Security.SharedKey.KeyMaterial)
	assert.Contains(t, out, `xmlns="`+profileNamespace+`"`)
}

func TestProfileXMLOpenAndBinary(t *testing.T) {
	out, err := ProfileXML(winwifi.ProfileSpec{Name: "guest", SSID: winwifi.SSID{0xff, 0x01}})
	require.NoError(t, err)

	var p wlanProfile
	require.NoError(t, xml.Unmarshal([]byte(out), &p))
	assert.Equal(t, "guest", p.Name)
	assert.Equal(t, "FF01", p.SSIDConfig.SSID.Hex)
	assert.Empty(t, p.SSIDConfig.SSID.Name)
	assert.Equal(t, "open", p.MSM.Security.AuthEncryption.Authentication)
	assert.Nil(t, p.MSM.Security.SharedKey)
	assert.NotContains(t, out, "sharedKey")
}
