package snapshot

import (
	"errors"
	"fmt"
	"net"
	"time"

	winwifi "github.com/dogeorg/winwifi/pkg"
)

// Format is bumped whenever ScanResult changes incompatibly.
const Format = 1

// Snapshot is a saved scan that can be rendered again without a radio.
type Snapshot struct {
	Format  int
	Host    string
	SavedAt time.Time
	Result  winwifi.ScanResult
	// Skipped entries of Result, flattened since errors do not gob encode.
	Skipped []Skipped
}

type Skipped struct {
	BSSID  net.HardwareAddr
	SSID   winwifi.SSID
	Reason string
}

func Save(filename, host string, result winwifi.ScanResult) error {
	s := Snapshot{
		Format:  Format,
		Host:    host,
		SavedAt: time.Now(),
		Result:  result,
	}
	s.Result.Skipped = nil
	for _, e := range result.Skipped {
		reason := "unknown"
		if e.Err != nil {
			reason = e.Err.Error()
		}
		s.Skipped = append(s.Skipped, Skipped{BSSID: e.BSSID, SSID: e.SSID, Reason: reason})
	}
	return NewGobFile[Snapshot](filename).Save(s)
}

func Load(filename string) (Snapshot, error) {
	s, err := NewGobFile[Snapshot](filename).Load()
	if err != nil {
		return Snapshot{}, err
	}
	if s.Format != Format {
		return Snapshot{}, fmt.Errorf("snapshot %q has format %d, want %d", filename, s.Format, Format)
	}
	for _, e := range s.Skipped {
		s.Result.Skipped = append(s.Result.Skipped, winwifi.BssError{BSSID: e.BSSID, SSID: e.SSID, Err: errors.New(e.Reason)})
	}
	return s, nil
}
