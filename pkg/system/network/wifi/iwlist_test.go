package network_wifi

import (
	"testing"

	winwifi "github.com/dogeorg/winwifi/pkg"
	network_ie "github.com/dogeorg/winwifi/pkg/system/network/ie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iwlistOutput = `wlan0     Scan completed :
          Cell 01 - Address: 00:11:22:33:44:55
                    Channel:36
                    Frequency:5.18 GHz (Channel 36)
                    Quality=70/70  Signal level=-38 dBm
                    Encryption key:on
                    ESSID:"home"
                    IE: IEEE 802.11i/WPA2 Version 1
                        Group Cipher : CCMP
                    IE: Unknown: 2D020200
                    IE: Unknown: 3D022401
          Cell 02 - Address: 66:77:88:99:AA:BB
                    Channel:6
                    Frequency:2.437 GHz (Channel 6)
                    Quality=35/70  Signal level=-75 dBm
                    Encryption key:off
                    ESSID:"caf\xC3\xA9 \xFF"
          Cell 03 - Address: CC:DD:EE:FF:00:11
                    Frequency:2.412 GHz (Channel 1)
                    Signal level=-60 dBm
                    Encryption key:on
                    ESSID:""
                    IE: WPA Version 1
                    IE: Unknown: 2D05
          Cell 04 - Address: 22:33:44:55:66:77
                    Frequency:2.412 GHz (Channel 1)
                    Signal level=-70 dBm
                    Encryption key:off
                    ESSID:"lab"
                    IE: Unknown: 2D0102
                    IE: Unknown: 3D1624
`

func TestParseIWListOutput(t *testing.T) {
	cells := parseIWListOutput(iwlistOutput)
	require.Len(t, cells, 4)

	home := cells[0]
	assert.Equal(t, "00:11:22:33:44:55", home.BSSID.String())
	assert.Equal(t, winwifi.SSID("home"), home.SSID)
	assert.Equal(t, uint32(5180000), home.CenterFrequency)
	assert.Equal(t, int32(-38), home.RSSI)
	assert.Equal(t, uint32(100), home.LinkQuality)
	assert.True(t, home.Encrypted)
	assert.Equal(t, "WPA2", home.Encryption)
	assert.NoError(t, home.ElementsErr)
	require.Len(t, home.InformationElements, 2)
	assert.Equal(t, winwifi.ElementHTCapabilities, home.InformationElements[0].ID)
	assert.Equal(t, []byte{0x02, 0x00}, home.InformationElements[0].Body)
	assert.Equal(t, winwifi.ElementHTOperation, home.InformationElements[1].ID)
	assert.Equal(t, []byte{36, 0x01}, home.InformationElements[1].Body)

	cafe := cells[1]
	assert.Equal(t, winwifi.SSID("caf\xc3\xa9 \xff"), cafe.SSID)
	assert.Equal(t, uint32(2437000), cafe.CenterFrequency)
	assert.Equal(t, uint32(50), cafe.LinkQuality)
	assert.False(t, cafe.Encrypted)
	assert.Empty(t, cafe.Encryption)

	hidden := cells[2]
	assert.Empty(t, hidden.SSID)
	assert.Equal(t, "WPA", hidden.Encryption)
	assert.Equal(t, uint32(80), hidden.LinkQuality)
	assert.Empty(t, hidden.InformationElements)
	assert.ErrorIs(t, hidden.ElementsErr, network_ie.ErrShortElement)

	lab := cells[3]
	require.Len(t, lab.InformationElements, 1)
	assert.Equal(t, winwifi.ElementHTCapabilities, lab.InformationElements[0].ID)
	require.ErrorIs(t, lab.ElementsErr, network_ie.ErrShortElement)

	_, err := network_ie.Enrich(lab.BssObservation)
	var bssErr winwifi.BssError
	require.ErrorAs(t, err, &bssErr)
	assert.Equal(t, "22:33:44:55:66:77", bssErr.BSSID.String())
}

func TestParseIWListOutputEmpty(t *testing.T) {
	assert.Empty(t, parseIWListOutput("wlan0     No scan results\n"))
	assert.Empty(t, parseIWListOutput(""))
}

func TestUnescapeESSID(t *testing.T) {
	assert.Equal(t, winwifi.SSID("plain"), unescapeESSID("plain"))
	assert.Equal(t, winwifi.SSID{0x00, 'a'}, unescapeESSID(`\x00a`))
	assert.Equal(t, winwifi.SSID(`\x`), unescapeESSID(`\x`))
	assert.Equal(t, winwifi.SSID(`\xZZ`), unescapeESSID(`\xZZ`))
}

func TestQualityFromDBm(t *testing.T) {
	assert.Equal(t, uint32(0), QualityFromDBm(-120))
	assert.Equal(t, uint32(0), QualityFromDBm(-100))
	assert.Equal(t, uint32(50), QualityFromDBm(-75))
	assert.Equal(t, uint32(100), QualityFromDBm(-50))
	assert.Equal(t, uint32(100), QualityFromDBm(-20))
}

func TestDispatcher(t *testing.T) {
	d := newDispatcher()
	var got []string
	h1 := d.add(func(tok winwifi.NotificationToken) { got = append(got, "a:"+tok.Code) })
	h2 := d.add(func(tok winwifi.NotificationToken) {})
	assert.NotEqual(t, h1, h2)

	d.notify(winwifi.NotificationToken{Code: "x"})
	assert.Equal(t, []string{"a:x"}, got)

	assert.True(t, d.remove(h1))
	assert.False(t, d.remove(h1))
	d.notify(winwifi.NotificationToken{Code: "y"})
	assert.Equal(t, []string{"a:x"}, got)

	_, ok := d.get(h2)
	assert.True(t, ok)
}
