//go:build linux

package network_wifi

import (
	"context"
	"testing"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinuxProfilesSorted(t *testing.T) {
	p := NewLinuxPlatform(logrus.New())
	iface := winwifi.Interface{ID: "wlan0"}
	ctx := context.Background()

	names, err := p.Profiles(ctx, iface)
	require.NoError(t, err)
	assert.Equal(t, []string{}, names)

	for _, ssid := range []string{"office", "cafe", "home", "attic"} {
		require.NoError(t, p.SetProfile(ctx, iface, winwifi.ProfileSpec{SSID: winwifi.SSID(ssid)}))
	}
	for i := 0; i < 5; i++ {
		names, err := p.Profiles(ctx, iface)
		require.NoError(t, err)
		assert.Equal(t, []string{"attic", "cafe", "home", "office"}, names)
	}

	require.NoError(t, p.DeleteProfile(ctx, iface, "home"))
	names, err = p.Profiles(ctx, iface)
	require.NoError(t, err)
	assert.Equal(t, []string{"attic", "cafe", "office"}, names)
}
