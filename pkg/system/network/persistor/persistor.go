package network_persistor

import (
	"context"
	"fmt"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/sirupsen/logrus"
)

type profileStore interface {
	SetProfile(ctx context.Context, iface winwifi.Interface, spec winwifi.ProfileSpec) error
	Profiles(ctx context.Context, iface winwifi.Interface) ([]string, error)
	DeleteProfile(ctx context.Context, iface winwifi.Interface, name string) error
}

// ProfilePersistor decides which profile a connect uses and hands new ones
// to the platform store. Profiles are named after the SSID.
type ProfilePersistor struct {
	store  profileStore
	logger logrus.FieldLogger
}

func NewNetworkPersistor(store profileStore, logger logrus.FieldLogger) ProfilePersistor {
	return ProfilePersistor{store: store, logger: logger}
}

func ProfileName(ssid winwifi.SSID) string {
	return ssid.String()
}

// Ensure returns the profile to connect with and whether it was created by
// this call. A password always writes a fresh WPA2-PSK profile. Without one
// an existing profile is reused, otherwise an open profile is written.
func (t ProfilePersistor) Ensure(ctx context.Context, iface winwifi.Interface, ssid winwifi.SSID, password string) (string, bool, error) {
	name := ProfileName(ssid)
	log := t.logger.WithField("profile", name)

	if password == "" {
		existing, err := t.store.Profiles(ctx, iface)
		if err != nil {
			return "", false, fmt.Errorf("listing profiles: %w", err)
		}
		for _, p := range existing {
			if p == name {
				log.Debug("using existing profile")
				return name, false, nil
			}
		}
	}

	spec := winwifi.ProfileSpec{Name: name, SSID: ssid, Password: password}
	if err := t.store.SetProfile(ctx, iface, spec); err != nil {
		return "", false, fmt.Errorf("setting profile %q: %w", name, err)
	}
	log.WithField("secured", password != "").Info("Profile created")
	return name, true, nil
}

func (t ProfilePersistor) Remove(ctx context.Context, iface winwifi.Interface, name string) error {
	if err := t.store.DeleteProfile(ctx, iface, name); err != nil {
		return fmt.Errorf("deleting profile %q: %w", name, err)
	}
	t.logger.WithField("profile", name).Info("Profile removed")
	return nil
}

// Forget removes the profiles of the given SSIDs that exist on iface and
// returns the names it removed.
func (t ProfilePersistor) Forget(ctx context.Context, iface winwifi.Interface, ssids ...winwifi.SSID) ([]string, error) {
	existing, err := t.store.Profiles(ctx, iface)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	have := map[string]bool{}
	for _, p := range existing {
		have[p] = true
	}

	removed := []string{}
	for _, ssid := range ssids {
		name := ProfileName(ssid)
		if !have[name] {
			continue
		}
		if err := t.Remove(ctx, iface, name); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}
