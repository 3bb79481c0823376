package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"flow_tui/internal/timefmt"
	"flow_tui/internal/timer"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Config struct {
	SessionSeconds int            `mapstructure:"session_seconds" yaml:"session_seconds"`
	Notifications  bool           `mapstructure:"notifications" yaml:"notifications"`
	DarkTheme      bool           `mapstructure:"dark_theme" yaml:"dark_theme"`
	Clock          string         `mapstructure:"clock" yaml:"clock"`
	Timeline       TimelineConfig `mapstructure:"timeline" yaml:"timeline"`
	Log            LogConfig      `mapstructure:"log" yaml:"log"`
}

type TimelineConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
}

type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

func Default() Config {
	return Config{
		SessionSeconds: timer.DefaultSessionSeconds,
		Notifications:  true,
		DarkTheme:      true,
		Clock:          "auto",
		Timeline: TimelineConfig{
			Backend: BackendMemory,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers Default() with v so that unset keys fall back to it.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("session_seconds", d.SessionSeconds)
	v.SetDefault("notifications", d.Notifications)
	v.SetDefault("dark_theme", d.DarkTheme)
	v.SetDefault("clock", d.Clock)
	v.SetDefault("timeline.backend", d.Timeline.Backend)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
}

// EnvPrefix namespaces environment overrides, e.g. FLOW_TIMELINE_BACKEND.
const EnvPrefix = "FLOW"

// BindEnv makes v read FLOW_* variables, mapping nested keys such as
// timeline.backend to FLOW_TIMELINE_BACKEND.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.SessionSeconds <= 0 {
		return fmt.Errorf("session_seconds must be positive, got %d", c.SessionSeconds)
	}
	if _, err := timefmt.ParseHourCycle(c.Clock, ""); err != nil {
		return err
	}
	switch c.Timeline.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown timeline backend %q", c.Timeline.Backend)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// HourCycle resolves the clock setting against the host locale.
func (c Config) HourCycle() timefmt.HourCycle {
	cycle, err := timefmt.ParseHourCycle(c.Clock, HostLocale())
	if err != nil {
		return timefmt.H24
	}
	return cycle
}

// HostLocale returns the locale used for time formatting, following the
// usual LC_ALL > LC_TIME > LANG precedence.
func HostLocale() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Settings are the preferences edited from the profile screen.
type Settings struct {
	Notifications bool
	DarkTheme     bool
	Clock         string
}

func (c Config) Settings() Settings {
	return Settings{
		Notifications: c.Notifications,
		DarkTheme:     c.DarkTheme,
		Clock:         c.Clock,
	}
}

// SaveSettings writes s into the YAML file at path. Keys already in the file
// are kept, so flag and environment overrides never leak into it.
func SaveSettings(path string, s Settings) error {
	doc := map[string]any{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decode config: %w", err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read config: %w", err)
	}

	doc["notifications"] = s.Notifications
	doc["dark_theme"] = s.DarkTheme
	doc["clock"] = s.Clock

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultPath is where settings are saved when no config file was given.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".flow.yaml"), nil
}

// ParseSessionLength accepts a bare number of minutes ("25") or a Go
// duration ("25m", "90s") and returns whole seconds.
func ParseSessionLength(input string) (int, error) {
	input = strings.TrimSpace(input)

	if minutes, err := strconv.Atoi(input); err == nil {
		if minutes <= 0 {
			return 0, fmt.Errorf("session length must be positive")
		}
		return minutes * 60, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format %q", input)
	}
	if d < time.Second {
		return 0, fmt.Errorf("session length must be at least one second")
	}
	return int(d / time.Second), nil
}
