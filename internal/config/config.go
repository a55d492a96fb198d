package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "tune"

// Defaults applied by the getters when a value is missing or invalid.
const (
	DefaultVolume           = 1.0
	DefaultFallbackDuration = 3 * time.Minute
	DefaultSeekStep         = 5 * time.Second
	DefaultBackend          = BackendSpeaker
	DefaultBuffer           = 100 * time.Millisecond
	DefaultOpenTimeout      = 2 * time.Second
	DefaultLogLevel         = "info"
	DefaultNotifyTimeout    = 5000 // ms
)

// Output backends.
const (
	BackendSpeaker = "speaker"
	BackendOto     = "oto"
)

type Config struct {
	Volume           *float64 `koanf:"volume"`            // initial volume level, 0.0-1.0 (default: 1.0)
	FallbackDuration string   `koanf:"fallback_duration"` // assumed length when a file has none (default: 3m)
	SeekStep         string   `koanf:"seek_step"`         // left/right seek distance (default: 5s)

	Output        OutputConfig        `koanf:"output"`
	Log           LogConfig           `koanf:"log"`
	Notifications NotificationsConfig `koanf:"notifications"`

	// MPRIS media controls (default: true)
	MPRIS *bool `koanf:"mpris"`
}

// OutputConfig holds audio output settings.
type OutputConfig struct {
	Backend     string `koanf:"backend"`      // "speaker" or "oto" (default: "speaker")
	Buffer      string `koanf:"buffer"`       // device buffer length (default: 100ms)
	OpenTimeout string `koanf:"open_timeout"` // device initialization timeout (default: 2s)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name (default: "info")
	File  string `koanf:"file"`  // log file path (default: $XDG_STATE_HOME/tune/tune.log)
}

// NotificationsConfig holds desktop notification settings.
type NotificationsConfig struct {
	Enabled      *bool `koanf:"enabled"`        // master switch (default: false)
	NowPlaying   *bool `koanf:"now_playing"`    // notify when playback starts (default: true)
	Errors       *bool `koanf:"errors"`         // notify on playback failures (default: true)
	ShowAlbumArt *bool `koanf:"show_album_art"` // use cover art as the icon (default: true)
	Timeout      int32 `koanf:"timeout"`        // ms, 0 uses the default (5000)
}

// IsEnabled reports whether notifications are turned on at all.
func (n NotificationsConfig) IsEnabled() bool {
	return n.Enabled != nil && *n.Enabled
}

// NowPlayingEnabled reports whether track start notifications are sent.
func (n NotificationsConfig) NowPlayingEnabled() bool {
	return n.IsEnabled() && (n.NowPlaying == nil || *n.NowPlaying)
}

// ErrorsEnabled reports whether playback failures are notified.
func (n NotificationsConfig) ErrorsEnabled() bool {
	return n.IsEnabled() && (n.Errors == nil || *n.Errors)
}

// AlbumArtEnabled reports whether cover art is attached as the icon.
func (n NotificationsConfig) AlbumArtEnabled() bool {
	return n.ShowAlbumArt == nil || *n.ShowAlbumArt
}

// GetTimeout returns the notification display time in milliseconds.
func (n NotificationsConfig) GetTimeout() int32 {
	if n.Timeout <= 0 {
		return DefaultNotifyTimeout
	}
	return n.Timeout
}

// Load reads the layered config files. extra, when non-empty, is loaded last
// and must exist.
func Load(extra string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}
	if extra != "" {
		if err := k.Load(file.Provider(expandPath(extra)), toml.Parser()); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	cfg.Output.Backend = strings.ToLower(strings.TrimSpace(cfg.Output.Backend))

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/tune/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetVolume returns the initial volume, clamped into [0,1].
func (c *Config) GetVolume() float64 {
	if c.Volume == nil {
		return DefaultVolume
	}
	return min(max(*c.Volume, 0), 1)
}

// GetFallbackDuration returns the duration assumed for files without one.
func (c *Config) GetFallbackDuration() time.Duration {
	return parseDuration(c.FallbackDuration, DefaultFallbackDuration)
}

// GetSeekStep returns the relative seek distance.
func (c *Config) GetSeekStep() time.Duration {
	return parseDuration(c.SeekStep, DefaultSeekStep)
}

// GetBackend returns the output backend name.
func (c *Config) GetBackend() string {
	switch c.Output.Backend {
	case BackendSpeaker, BackendOto:
		return c.Output.Backend
	default:
		return DefaultBackend
	}
}

// GetBuffer returns the device buffer length.
func (c *Config) GetBuffer() time.Duration {
	return parseDuration(c.Output.Buffer, DefaultBuffer)
}

// GetOpenTimeout returns how long device initialization may take.
func (c *Config) GetOpenTimeout() time.Duration {
	return parseDuration(c.Output.OpenTimeout, DefaultOpenTimeout)
}

// GetLogLevel returns the configured log level name.
func (c *Config) GetLogLevel() string {
	if c.Log.Level == "" {
		return DefaultLogLevel
	}
	return strings.ToLower(c.Log.Level)
}

// GetLogFile returns the log file path, creating its directory under the
// XDG state home when no path is configured.
func (c *Config) GetLogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return xdg.StateFile(filepath.Join(appName, appName+".log"))
}

// MPRISEnabled reports whether desktop media controls should be started.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS == nil || *c.MPRIS
}

// parseDuration parses s, falling back to def when s is empty, malformed or
// not positive.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
