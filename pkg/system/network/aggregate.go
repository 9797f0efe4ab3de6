package network

import (
	"fmt"

	winwifi "github.com/dogeorg/winwifi/pkg"
)

// Aggregate attaches every observation to each network with the same SSID.
// Several networks can share an SSID (one per interface), in which case all of
// them get the observation. Observations without an SSID are skipped, those
// matching nothing are handed to onUnmatched and dropped.
// The input networks are not modified.
func Aggregate(networks []winwifi.Network, observations []winwifi.Bss, onUnmatched func(winwifi.Bss)) []winwifi.Network {
	out := make([]winwifi.Network, len(networks))
	copy(out, networks)
	for i := range out {
		out[i].BSSs = append([]winwifi.Bss(nil), out[i].BSSs...)
	}

	for _, bss := range observations {
		// Ignore anything without an SSID
		if len(bss.SSID) == 0 {
			continue
		}

		matched := false
		for i := range out {
			if out[i].SSID.Equal(bss.SSID) {
				out[i].BSSs = append(out[i].BSSs, bss)
				matched = true
			}
		}

		if !matched && onUnmatched != nil {
			onUnmatched(bss)
		}
	}

	return out
}

// FilterBySSID keeps the networks whose SSID is exactly ssid. An empty ssid
// keeps everything.
func FilterBySSID(networks []winwifi.Network, ssid winwifi.SSID) []winwifi.Network {
	if len(ssid) == 0 {
		return networks
	}
	filtered := []winwifi.Network{}
	for _, n := range networks {
		if n.SSID.Equal(ssid) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

// DecodeNames sets Name on every network whose SSID is valid UTF-8.
func DecodeNames(networks []winwifi.Network) {
	for i := range networks {
		if name, ok := networks[i].SSID.Text(); ok {
			networks[i].Name = name
		}
	}
}

func UnmatchedMessage(bss winwifi.Bss) string {
	msg := fmt.Sprintf("No matching network(s) found for SSID %q", []byte(bss.SSID))
	if text, ok := bss.SSID.Text(); ok && text != "" {
		msg += fmt.Sprintf(" (%q)", text)
	}
	return msg
}
