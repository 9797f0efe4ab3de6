package store

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	winwifi "github.com/dogeorg/winwifi/pkg"
)

// Sighting accumulates every time an access point showed up in a scan.
type Sighting struct {
	BSSID     string
	SSID      string
	Band      winwifi.Band
	Channels  []int
	FirstSeen time.Time
	LastSeen  time.Time
	Count     int
	LastRSSI  int32
	BestRSSI  int32
}

type SightingLog struct {
	table *Table[Sighting]
}

func NewSightingLog(s *Store) (*SightingLog, error) {
	t, err := GetTable[Sighting](s)
	if err != nil {
		return nil, err
	}
	return &SightingLog{table: t}, nil
}

// Record folds one scan into the log and returns how many access points it
// touched. An access point reported by several interfaces counts once.
func (l *SightingLog) Record(result winwifi.ScanResult) (int, error) {
	seen := result.Finished
	if seen.IsZero() {
		seen = time.Now()
	}

	done := map[string]bool{}
	for _, n := range result.Networks {
		for _, b := range n.BSSs {
			key := b.BSSID.String()
			if key == "" || done[key] {
				continue
			}
			done[key] = true

			s, err := l.table.Get(key)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				s = Sighting{BSSID: key, FirstSeen: seen, BestRSSI: b.RSSI}
			case err != nil:
				return len(done) - 1, fmt.Errorf("reading sighting %s: %w", key, err)
			}

			s.SSID = b.SSID.String()
			s.Band = b.Band
			s.Channels = slices.Clone(b.Channels)
			s.LastSeen = seen
			s.Count++
			s.LastRSSI = b.RSSI
			if b.RSSI > s.BestRSSI {
				s.BestRSSI = b.RSSI
			}
			if err := l.table.Set(key, s); err != nil {
				return len(done) - 1, fmt.Errorf("writing sighting %s: %w", key, err)
			}
		}
	}
	return len(done), nil
}

func (l *SightingLog) List() ([]Sighting, error) {
	return l.table.All()
}

// Forget drops one BSSID. Forgetting an unknown BSSID is not an error.
func (l *SightingLog) Forget(bssid string) error {
	return l.table.Del(strings.ToLower(bssid))
}
