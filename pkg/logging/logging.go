package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the process logger. Entries at cfg.Level and above go to a
// dated file under cfg.Dir, entries at cfg.ConsoleLevel and above are also
// written to console. The closer flushes and closes the log file.
func New(cfg winwifi.LogConfig, console io.Writer) (*logrus.Logger, io.Closer, error) {
	consoleLevel, err := parseLevel(cfg.ConsoleLevel, logrus.WarnLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log.console_level: %w", err)
	}
	fileLevel, err := parseLevel(cfg.Level, logrus.DebugLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log.level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetReportCaller(true)
	logger.SetFormatter(&Formatter{})

	var closer io.Closer = nopCloser{}
	level := consoleLevel

	if !cfg.Disabled {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log dir: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, time.Now().Format("2006-01-02")+".log"),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		logger.AddHook(&writer.Hook{Writer: lj, LogLevels: levelsFrom(fileLevel)})
		closer = lj
		if fileLevel > level {
			level = fileLevel
		}
	}

	if console != nil {
		logger.AddHook(&writer.Hook{Writer: console, LogLevels: levelsFrom(consoleLevel)})
	}

	logger.SetLevel(level)
	return logger, closer, nil
}

func parseLevel(s string, fallback logrus.Level) (logrus.Level, error) {
	if s == "" {
		return fallback, nil
	}
	return logrus.ParseLevel(s)
}

// levelsFrom returns min and every more severe level.
func levelsFrom(min logrus.Level) []logrus.Level {
	levels := []logrus.Level{}
	for _, l := range logrus.AllLevels {
		if l <= min {
			levels = append(levels, l)
		}
	}
	return levels
}

// Formatter writes "time - file:line - LEVEL - message key=value ...".
type Formatter struct{}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	b.WriteString(entry.Time.Format(timestampFormat))
	b.WriteString(" - ")
	if entry.HasCaller() {
		b.WriteString(caller(entry.Caller))
		b.WriteString(" - ")
	}
	b.WriteString(strings.ToUpper(entry.Level.String()))
	b.WriteString(" - ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func caller(frame *runtime.Frame) string {
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}
