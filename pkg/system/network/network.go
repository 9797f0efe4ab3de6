package network

import (
	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/dogeorg/winwifi/pkg/metrics"
	"github.com/sirupsen/logrus"
)

func NewNetworkManager(platform winwifi.WlanPlatform, config winwifi.ScanConfig, logger logrus.FieldLogger, m *metrics.Metrics) *Manager {
	return &Manager{
		platform: platform,
		scanner:  NewScanner(platform, config.Timeout, logger, m),
		logger:   logger,
		metrics:  m,
	}
}
