package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesFileAndConsole(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, closer, err := New(winwifi.LogConfig{
		Dir:          dir,
		Level:        "debug",
		ConsoleLevel: "warning",
		MaxSizeMB:    1,
	}, &console)
	require.NoError(t, err)

	logger.WithField("interface", "wlan0").Debug("scan complete")
	logger.Warn("Scan did not complete in time")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	file := string(data)
	assert.Contains(t, file, "DEBUG - scan complete interface=wlan0")
	assert.Contains(t, file, "WARNING - Scan did not complete in time")
	assert.Contains(t, file, "logging_test.go:")

	assert.NotContains(t, console.String(), "scan complete")
	assert.Contains(t, console.String(), "WARNING - Scan did not complete in time")
}

func TestNewDisabledFile(t *testing.T) {
	var console bytes.Buffer
	logger, closer, err := New(winwifi.LogConfig{Disabled: true, ConsoleLevel: "info"}, &console)
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	logger.Debug("hidden")
	logger.Info("shown")
	assert.Equal(t, 1, strings.Count(console.String(), "\n"))
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(winwifi.LogConfig{Disabled: true, ConsoleLevel: "loud"}, nil)
	assert.Error(t, err)

	_, _, err = New(winwifi.LogConfig{Dir: t.TempDir(), Level: "chatty"}, nil)
	assert.Error(t, err)
}

func TestFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Level:   logrus.ErrorLevel,
		Message: `No matching network(s) found for SSID "x"`,
		Data:    logrus.Fields{"b": 2, "a": 1},
	}
	out, err := (&Formatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 09:30:00.000 - ERROR - No matching network(s) found for SSID \"x\" a=1 b=2\n", string(out))
}

func TestLevelsFrom(t *testing.T) {
	assert.Equal(t, []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}, levelsFrom(logrus.WarnLevel))
}
