package winwifi

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Scan    ScanConfig    `mapstructure:"scan"`
	Connect ConnectConfig `mapstructure:"connect"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Store   StoreConfig   `mapstructure:"store"`
}

type ScanConfig struct {
	// Zero waits for the scan notification without a bound.
	Timeout time.Duration `mapstructure:"timeout"`
}

type ConnectConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Disabled     bool   `mapstructure:"disabled"`
	Dir          string `mapstructure:"dir"`
	Level        string `mapstructure:"level"`
	ConsoleLevel string `mapstructure:"console_level"`
	MaxSizeMB    int    `mapstructure:"max_size_mb"`
	MaxBackups   int    `mapstructure:"max_backups"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// StoreConfig names the sqlite database scans record sightings into.
// Empty disables recording.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

func DefaultConfig() Config {
	return Config{
		Scan:    ScanConfig{Timeout: 10 * time.Second},
		Connect: ConnectConfig{Timeout: 20 * time.Second},
		Log: LogConfig{
			Dir:          "logs",
			Level:        "debug",
			ConsoleLevel: "warning",
			MaxSizeMB:    10,
			MaxBackups:   5,
		},
	}
}

func (c Config) Validate() error {
	if c.Scan.Timeout < 0 {
		return fmt.Errorf("scan.timeout must not be negative, got %s", c.Scan.Timeout)
	}
	if c.Connect.Timeout < 0 {
		return fmt.Errorf("connect.timeout must not be negative, got %s", c.Connect.Timeout)
	}
	if !c.Log.Disabled && c.Log.Dir == "" {
		return fmt.Errorf("log.dir is required unless log.disabled is set")
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("log.max_size_mb and log.max_backups must not be negative")
	}
	return nil
}

// Flag names that override config keys when set on the command line.
var flagKeys = map[string]string{
	"scan-timeout":     "scan.timeout",
	"connect-timeout":  "connect.timeout",
	"log-dir":          "log.dir",
	"log-level":        "log.level",
	"console-level":    "log.console_level",
	"no-log-file":      "log.disabled",
	"metrics-textfile": "metrics.textfile",
	"sightings-db":     "store.path",
}

// LoadConfig layers defaults, the optional config file, WINWIFI_* environment
// variables and flags, in increasing priority.
func LoadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("scan.timeout", def.Scan.Timeout)
	v.SetDefault("connect.timeout", def.Connect.Timeout)
	v.SetDefault("log.disabled", def.Log.Disabled)
	v.SetDefault("log.dir", def.Log.Dir)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.console_level", def.Log.ConsoleLevel)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("metrics.textfile", def.Metrics.Textfile)
	v.SetDefault("store.path", def.Store.Path)

	v.SetEnvPrefix("WINWIFI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
