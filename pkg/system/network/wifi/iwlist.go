package network_wifi

import (
	"bytes"
	"context"
	"encoding/hex"
	"math"
	"net"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	winwifi "github.com/dogeorg/winwifi/pkg"
	network_ie "github.com/dogeorg/winwifi/pkg/system/network/ie"
)

// One "Cell" of iwlist scan output.
type ScannedCell struct {
	winwifi.BssObservation
	Encrypted  bool
	Encryption string
}

type IWListScanner struct{}

func (s IWListScanner) Scan(ctx context.Context, interfaceName string) ([]ScannedCell, error) {
	cmd := exec.CommandContext(ctx, "iwlist", interfaceName, "scan")
	var out bytes.Buffer
	cmd.Stdout = &out
	err := cmd.Run()
	if err != nil {
		return nil, err
	}

	return parseIWListOutput(out.String()), nil
}

var (
	ssidRegex       = regexp.MustCompile(`ESSID:"(.*)"`)
	addressRegex    = regexp.MustCompile(`Address: ([0-9A-Fa-f:]+)`)
	frequencyRegex  = regexp.MustCompile(`Frequency:([0-9.]+) GHz`)
	qualityRegex    = regexp.MustCompile(`Quality=(\d+)/(\d+)`)
	signalRegex     = regexp.MustCompile(`Signal level=(-?\d+) dBm`)
	encryptionRegex = regexp.MustCompile(`Encryption key:(on|off)`)
	wpa2Regex       = regexp.MustCompile(`IE: IEEE 802.11i/WPA2 Version`)
	wpaRegex        = regexp.MustCompile(`IE: WPA Version 1`)
	unknownIERegex  = regexp.MustCompile(`IE: Unknown: ([0-9A-Fa-f]+)`)
)

func parseIWListOutput(output string) []ScannedCell {
	var cells []ScannedCell

	for _, cell := range strings.Split(output, "Cell ")[1:] {
		address := addressRegex.FindStringSubmatch(cell)
		if len(address) < 2 {
			continue
		}
		bssid, err := net.ParseMAC(address[1])
		if err != nil {
			continue
		}

		c := ScannedCell{}
		c.BSSID = bssid

		if ssid := ssidRegex.FindStringSubmatch(cell); len(ssid) > 1 {
			c.SSID = unescapeESSID(ssid[1])
		}
		if freq := frequencyRegex.FindStringSubmatch(cell); len(freq) > 1 {
			if ghz, err := strconv.ParseFloat(freq[1], 64); err == nil {
				c.CenterFrequency = uint32(math.Round(ghz * 1e6))
			}
		}
		if signal := signalRegex.FindStringSubmatch(cell); len(signal) > 1 {
			if dbm, err := strconv.Atoi(signal[1]); err == nil {
				c.RSSI = int32(dbm)
			}
		}
		if quality := qualityRegex.FindStringSubmatch(cell); len(quality) > 2 {
			have, _ := strconv.Atoi(quality[1])
			max, _ := strconv.Atoi(quality[2])
			if max > 0 {
				c.LinkQuality = uint32(have * 100 / max)
			}
		} else if c.RSSI != 0 {
			c.LinkQuality = QualityFromDBm(int(c.RSSI))
		}

		if encryption := encryptionRegex.FindStringSubmatch(cell); len(encryption) > 1 && encryption[1] == "on" {
			c.Encrypted = true
			switch {
			case wpa2Regex.MatchString(cell):
				c.Encryption = "WPA2"
			case wpaRegex.MatchString(cell):
				c.Encryption = "WPA"
			default:
				c.Encryption = "WEP"
			}
		}

		// Unknown IEs are printed whole, id and length included.
		var raw []byte
		for _, m := range unknownIERegex.FindAllStringSubmatch(cell, -1) {
			b, err := hex.DecodeString(m[1])
			if err != nil {
				continue
			}
			raw = append(raw, b...)
		}
		if len(raw) > 0 {
			c.InformationElements, c.ElementsErr = network_ie.ParseElements(raw)
		}

		cells = append(cells, c)
	}

	return cells
}

// unescapeESSID turns the \xNN escapes iwlist uses for unprintable bytes
// back into raw SSID bytes.
func unescapeESSID(s string) winwifi.SSID {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			if b, err := hex.DecodeString(s[i+2 : i+4]); err == nil {
				out = append(out, b[0])
				i += 3
				continue
			}
		}
		out = append(out, s[i])
	}
	return winwifi.SSID(out)
}

// QualityFromDBm maps a signal level onto the 0-100 quality scale windows
// reports, linear between -100 dBm and -50 dBm.
func QualityFromDBm(dbm int) uint32 {
	switch {
	case dbm <= -100:
		return 0
	case dbm >= -50:
		return 100
	}
	return uint32(2 * (dbm + 100))
}
