package winwifi

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "winwifi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scan:
  timeout: 4s
log:
  dir: /var/log/winwifi
  console_level: error
metrics:
  textfile: /tmp/winwifi.prom
`), 0o644))

	t.Setenv("WINWIFI_LOG_LEVEL", "info")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Duration("scan-timeout", 0, "")
	flags.String("console-level", "", "")
	require.NoError(t, flags.Parse([]string{"--scan-timeout=2s"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Scan.Timeout, "flag beats file")
	assert.Equal(t, "error", cfg.Log.ConsoleLevel, "unset flag keeps the file value")
	assert.Equal(t, "info", cfg.Log.Level, "environment beats default")
	assert.Equal(t, "/var/log/winwifi", cfg.Log.Dir)
	assert.Equal(t, "/tmp/winwifi.prom", cfg.Metrics.Textfile)
	assert.Equal(t, 20*time.Second, cfg.Connect.Timeout)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  timeout: -1s\n"), 0o644))
	_, err = LoadConfig(path, nil)
	assert.ErrorContains(t, err, "scan.timeout")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Dir = ""
	assert.Error(t, cfg.Validate())

	cfg.Log.Disabled = true
	assert.NoError(t, cfg.Validate())
}

func TestSSID(t *testing.T) {
	text, ok := SSID("home").Text()
	assert.True(t, ok)
	assert.Equal(t, "home", text)

	_, ok = SSID{0xff}.Text()
	assert.False(t, ok)
	assert.Equal(t, `"\xff"`, SSID{0xff}.String())

	assert.True(t, SSID("a").Equal(SSID("a")))
	assert.False(t, SSID("a").Equal(SSID("A")))
	assert.True(t, SSID(nil).Equal(SSID{}))
}
