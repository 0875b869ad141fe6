// Package config loads settings from config.yaml, ITEMIZE_* environment
// variables and defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	_ "time/tzdata" // Zone names resolve without system tzdata

	"github.com/spf13/viper"

	"github.com/erazemk/itemize/internal/listing"
)

const (
	appName        = "itemize"
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "ITEMIZE"
)

// Config keys.
const (
	KeyDataDir       = "data_dir"
	KeyLogLevel      = "log.level"
	KeyLogFile       = "log.file"
	KeyTimeZone      = "display.time_zone"
	KeyUncategorized = "display.uncategorized_label"
	KeyUntagged      = "display.untagged_label"
	KeySeedOnStart   = "demo.seed_on_start"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Itemize configuration

# Directory holding itemize.sqlite3 and the images folder.
# data_dir:

log:
  level: warn
  # file: /path/to/itemize.log

display:
  # IANA zone used for date sections; empty uses the system zone.
  time_zone: ""
  uncategorized_label: Uncategorized
  untagged_label: Untagged

demo:
  seed_on_start: true
`

// Config is the resolved configuration.
type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Log     LogConfig     `mapstructure:"log"`
	Display DisplayConfig `mapstructure:"display"`
	Demo    DemoConfig    `mapstructure:"demo"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DisplayConfig controls list rendering.
type DisplayConfig struct {
	TimeZone           string `mapstructure:"time_zone"`
	UncategorizedLabel string `mapstructure:"uncategorized_label"`
	UntaggedLabel      string `mapstructure:"untagged_label"`
}

// DemoConfig controls demo data.
type DemoConfig struct {
	SeedOnStart bool `mapstructure:"seed_on_start"`
}

// platformDir can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// xdgDir resolves $env/itemize on Linux, falling back to ~/fallback/itemize,
// and the user config dir elsewhere.
func xdgDir(env string, fallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// New returns a viper instance reading config.yaml from configDir. The
// directory and a default config.yaml are created on first run; a missing
// file is not an error.
func New(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTimeZone, "")
	v.SetDefault(KeyUncategorized, listing.DefaultLabels.Uncategorized)
	v.SetDefault(KeyUntagged, listing.DefaultLabels.Untagged)
	v.SetDefault(KeySeedOnStart, true)
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// Decode resolves v into a Config. An empty data_dir becomes the platform
// default and the time zone is checked.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("resolving data dir: %w", err)
		}
		cfg.DataDir = dir
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DatabasePath returns the SQLite file inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, appName+".sqlite3")
}

// ImagesDir returns the image folder inside the data directory.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.DataDir, "images")
}

// Location returns the display time zone. Empty means time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Display.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", c.Display.TimeZone, err)
	}
	return loc, nil
}

// Labels returns the reserved section titles.
func (c *Config) Labels() listing.Labels {
	return listing.Labels{
		Uncategorized: c.Display.UncategorizedLabel,
		Untagged:      c.Display.UntaggedLabel,
	}
}

// LogLevel parses the configured level. Unknown levels mean info.
func (c *Config) LogLevel() slog.Level {
	return ParseLevel(c.Log.Level)
}

// ParseLevel converts a level name to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
