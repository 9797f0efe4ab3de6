package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/dogeorg/winwifi/pkg/store"
)

type field struct {
	Key   string
	Value any
}

// fields is a JSON object that keeps its key order.
type fields []field

func (f fields) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, kv := range f {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (f fields) write(w io.Writer, indent string) {
	for _, kv := range f {
		fmt.Fprintf(w, "%s%s: %v\n", indent, kv.Key, kv.Value)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func networkFields(n winwifi.Network) fields {
	return fields{
		{"SSID", n.DisplayName()},
		{"Interface", n.InterfaceID},
		{"Profile Name", n.ProfileName},
		{"BSS Type", n.BssType},
		{"Number of BSSIDs", n.BssCount},
		{"Connectable", yesNo(n.Connectable)},
		{"Connected", yesNo(n.Connected)},
		{"Signal Quality", fmt.Sprintf("%d%%", n.SignalQuality)},
		{"Security Enabled", yesNo(n.SecurityEnabled)},
		{"Auth", n.AuthAlgorithm},
		{"Cipher", n.CipherAlgorithm},
	}
}

// channelString joins a bonded pair with + when the secondary is above the
// primary and - when below. Empty when the primary is unknown.
func channelString(channels []int) string {
	if len(channels) == 0 || channels[0] == 0 {
		return ""
	}
	if len(channels) == 1 {
		return strconv.Itoa(channels[0])
	}
	delim := "-"
	if channels[0] < channels[1] {
		delim = "+"
	}
	parts := make([]string, len(channels))
	for i, c := range channels {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, delim)
}

// bssFields is the JSON form. The payload always says Channel, only the text
// output switches to Channels for a bonded pair.
func bssFields(b winwifi.Bss) fields {
	f := fields{
		{"MAC", b.BSSID.String()},
		{"Band", string(b.Band)},
		{"Signal", fmt.Sprintf("%d dBm", b.RSSI)},
	}
	if ch := channelString(b.Channels); ch != "" {
		f = append(f, field{"Channel", ch})
	}
	return f
}

func bssText(b winwifi.Bss) fields {
	f := bssFields(b)
	if len(b.Channels) < 2 {
		return f
	}
	text := make(fields, len(f))
	copy(text, f)
	for i := range text {
		if text[i].Key == "Channel" {
			text[i].Key = "Channels"
		}
	}
	return text
}

func profileSuffix(n winwifi.Network) string {
	if n.HasProfile && n.ProfileName != "" {
		return " (" + n.ProfileName + ")"
	}
	return ""
}

// renderScan writes networks at the given verbosity and returns the JSON payload.
func renderScan(w io.Writer, networks []winwifi.Network, verbosity int) []any {
	payload := []any{}
	for _, n := range networks {
		if verbosity == 0 {
			line := n.DisplayName() + profileSuffix(n)
			payload = append(payload, line)
			fmt.Fprintln(w, line)
			continue
		}

		data := networkFields(n)
		data.write(w, "")

		if verbosity >= 2 {
			bsss := []fields{}
			for i, b := range n.BSSs {
				fmt.Fprintf(w, "BSSID %d\n", i+1)
				bssText(b).write(w, "\t")
				bsss = append(bsss, bssFields(b))
			}
			data = append(data, field{"BSSID", bsss})
		}
		fmt.Fprintln(w)
		payload = append(payload, data)
	}
	return payload
}

func renderConnections(w io.Writer, conns []winwifi.Connection, verbosity int) []fields {
	payload := []fields{}
	for _, c := range conns {
		var f fields
		if verbosity == 0 {
			f = fields{{"SSID", fmt.Sprintf("%s (%s)", c.SSID, c.State)}}
		} else {
			f = fields{
				{"Interface", c.Interface.Name()},
				{"SSID", c.SSID.String()},
				{"State", string(c.State)},
				{"BSSID", c.BSSID.String()},
				{"Profile Name", c.ProfileName},
				{"Signal Quality", fmt.Sprintf("%d%%", c.Signal)},
			}
		}
		for _, kv := range f {
			fmt.Fprintf(w, "%s:%v\n", kv.Key, kv.Value)
		}
		payload = append(payload, f)
	}
	return payload
}

func renderHistory(w io.Writer, profiles []string, verbosity int) any {
	if verbosity == 0 {
		for _, p := range profiles {
			fmt.Fprintln(w, p)
		}
		return profiles
	}
	fmt.Fprintln(w, "Profiles:")
	for _, p := range profiles {
		fmt.Fprintf(w, "\t%s\n", p)
	}
	return fields{{"Profiles", profiles}}
}

func renderSightings(w io.Writer, sightings []store.Sighting, verbosity int) []fields {
	payload := []fields{}
	for _, s := range sightings {
		f := fields{
			{"MAC", s.BSSID},
			{"SSID", s.SSID},
			{"Seen", s.Count},
			{"Last Seen", s.LastSeen.Local().Format(time.DateTime)},
		}
		if verbosity > 0 {
			f = append(f,
				field{"First Seen", s.FirstSeen.Local().Format(time.DateTime)},
				field{"Band", string(s.Band)},
				field{"Channels", channelString(s.Channels)},
				field{"Last Signal", fmt.Sprintf("%d dBm", s.LastRSSI)},
				field{"Best Signal", fmt.Sprintf("%d dBm", s.BestRSSI)},
			)
		}
		f.write(w, "")
		fmt.Fprintln(w)
		payload = append(payload, f)
	}
	return payload
}
