package network_wifi

import (
	"encoding/hex"
	"encoding/xml"
	"strings"

	winwifi "github.com/dogeorg/winwifi/pkg"
)

const profileNamespace = "http://www.microsoft.com/networking/WLAN/profile/v1"

type wlanProfile struct {
	XMLName        xml.Name `xml:"WLANProfile"`
	Xmlns          string   `xml:"xmlns,attr"`
	Name           string   `xml:"name"`
	SSIDConfig     ssidConfig
	ConnectionType string `xml:"connectionType"`
	ConnectionMode string `xml:"connectionMode"`
	MSM            msm    `xml:"MSM"`
}

type ssidConfig struct {
	SSID profileSSID `xml:"SSID"`
}

type profileSSID struct {
	Hex  string `xml:"hex"`
	Name string `xml:"name,omitempty"`
}

type msm struct {
	Security security `xml:"security"`
}

type security struct {
	AuthEncryption authEncryption `xml:"authEncryption"`
	SharedKey      *sharedKey     `xml:"sharedKey,omitempty"`
}

type authEncryption struct {
	Authentication string `xml:"authentication"`
	Encryption     string `xml:"encryption"`
	UseOneX        bool   `xml:"useOneX"`
}

type sharedKey struct {
	KeyType     string `xml:"keyType"`
	Protected   bool   `xml:"protected"`
	KeyMaterial string `xml:"keyMaterial"`
}

// ProfileXML renders a WPA2-PSK/AES profile, or an open one when the
// password is empty. The SSID is carried as hex so any byte sequence works.
func ProfileXML(spec winwifi.ProfileSpec) (string, error) {
	name := spec.Name
	if name == "" {
		name = spec.SSID.String()
	}

	p := wlanProfile{
		Xmlns: profileNamespace,
		Name:  name,
		SSIDConfig: ssidConfig{
			SSID: profileSSID{Hex: strings.ToUpper(hex.EncodeToString(spec.SSID))},
		},
		ConnectionType: "ESS",
		ConnectionMode: "manual",
	}
	if text, ok := spec.SSID.Text(); ok {
		p.SSIDConfig.SSID.Name = text
	}

	if spec.Password == "" {
		p.MSM.Security.AuthEncryption = authEncryption{Authentication: "open", Encryption: "none"}
	} else {
		p.MSM.Security.AuthEncryption = authEncryption{Authentication: "WPA2PSK", Encryption: "AES"}
		p.MSM.Security.SharedKey = &sharedKey{
			KeyType:     "passPhrase",
			KeyMaterial: spec.Password,
		}
	}

	out, err := xml.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out), nil
}
