//go:build !linux && !windows

package network_wifi

import (
	"fmt"
	"runtime"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/sirupsen/logrus"
)

func newPlatform(logger logrus.FieldLogger) (winwifi.WlanPlatform, error) {
	return nil, fmt.Errorf("wlan on %s: %w", runtime.GOOS, winwifi.ErrNotSupported)
}
