// Package config loads the CLI's settings via viper: a YAML file plus
// environment overrides, hot-reloaded through fsnotify while the
// process runs.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Settings is the decoded shape of the CLI's configuration file and
// environment overrides.
type Settings struct {
	LogLevel           string `mapstructure:"log_level"`
	LogEncoding        string `mapstructure:"log_encoding"`
	LogFile            string `mapstructure:"log_file"`
	StrictMode         bool   `mapstructure:"strict_mode"`
	MaxBlockSizeBytes  int    `mapstructure:"max_block_size_bytes"`
	MaxConsecutiveErrors int  `mapstructure:"max_consecutive_errors"`
}

// DefaultSettings mirrors the zero-config CLI behaviour.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:             "info",
		LogEncoding:          "console",
		StrictMode:           false,
		MaxBlockSizeBytes:    16 << 20,
		MaxConsecutiveErrors: 1000, // 0 means "no limit"
	}
}

// Loader wraps a viper instance configured to read pcapngdump's
// settings file, with environment overrides under the PCAPNG_ prefix.
type Loader struct {
	v      *viper.Viper
	mu     sync.RWMutex
	loaded bool
}

// NewLoader returns a Loader that searches for a "pcapngdump" config
// file (yaml/json/toml, whichever viper finds) at the given paths.
func NewLoader(paths ...string) *Loader {
	v := viper.New()
	v.SetConfigName("pcapngdump")
	if len(paths) == 0 {
		paths = []string{".", "/etc/pcapngdump/"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("PCAPNG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultSettings()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_encoding", def.LogEncoding)
	v.SetDefault("strict_mode", def.StrictMode)
	v.SetDefault("max_block_size_bytes", def.MaxBlockSizeBytes)
	v.SetDefault("max_consecutive_errors", def.MaxConsecutiveErrors)

	return &Loader{v: v}
}

// Load reads the config file, if present, and returns the decoded
// Settings. A missing file is not an error; only defaults and
// environment overrides apply in that case.
func (l *Loader) Load() (Settings, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("config: read failed: %w", err)
		}
	}
	l.loaded = true

	var s Settings
	if err := l.v.Unmarshal(&s, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())); err != nil {
		return Settings{}, fmt.Errorf("config: decode failed: %w", err)
	}
	return s, nil
}

// OnChange registers a callback fired whenever the config file changes
// on disk, re-decoding Settings before invoking cb.
func (l *Loader) OnChange(cb func(Settings)) {
	l.v.OnConfigChange(func(_ fsnotify.Event) {
		l.mu.Lock()
		var s Settings
		err := l.v.Unmarshal(&s)
		l.mu.Unlock()
		if err == nil {
			cb(s)
		}
	})
	l.v.WatchConfig()
}
