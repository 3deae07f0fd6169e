// Package config loads the typed application settings. All validation
// happens here, at the load boundary: the session context and orchestrator
// only ever see values that already passed the checks.
package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// TranslationSettings drive the session context.
type TranslationSettings struct {
	PrimaryLanguage       string `mapstructure:"primary_language"`
	SecondLanguage        string `mapstructure:"second_language"`
	SessionTimeoutMinutes int    `mapstructure:"session_timeout"`
	SmartSwitch           bool   `mapstructure:"smart_switch"`
}

// Timeout returns the session timeout as a duration.
func (t TranslationSettings) Timeout() time.Duration {
	return time.Duration(t.SessionTimeoutMinutes) * time.Minute
}

// ProviderSettings select and configure the translation backend.
type ProviderSettings struct {
	Name            string `mapstructure:"name"`
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	CredentialsFile string `mapstructure:"credentials_file"`
	TimeoutSeconds  int    `mapstructure:"timeout"`
}

// Timeout returns the network timeout for provider calls.
func (p ProviderSettings) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

type CacheSettings struct {
	Capacity int `mapstructure:"capacity"`
	TTLHours int `mapstructure:"ttl_hours"`
}

func (c CacheSettings) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

type HistorySettings struct {
	Capacity int    `mapstructure:"capacity"`
	DBPath   string `mapstructure:"db_path"`
}

// Settings is the full configuration snapshot handed around read-only.
type Settings struct {
	Translation TranslationSettings `mapstructure:"translation"`
	Provider    ProviderSettings    `mapstructure:"provider"`
	Cache       CacheSettings       `mapstructure:"cache"`
	History     HistorySettings     `mapstructure:"history"`
}

// Validate enforces the settings invariants.
func (s Settings) Validate() error {
	if !validCode(s.Translation.PrimaryLanguage) {
		return fmt.Errorf("translation.primary_language: %q is not a two-letter code", s.Translation.PrimaryLanguage)
	}
	if !validCode(s.Translation.SecondLanguage) {
		return fmt.Errorf("translation.second_language: %q is not a two-letter code", s.Translation.SecondLanguage)
	}
	if s.Translation.PrimaryLanguage == s.Translation.SecondLanguage {
		return fmt.Errorf("translation.primary_language and second_language must differ, both are %q", s.Translation.PrimaryLanguage)
	}
	if s.Translation.SessionTimeoutMinutes <= 0 {
		return fmt.Errorf("translation.session_timeout: must be positive minutes, got %d", s.Translation.SessionTimeoutMinutes)
	}
	if s.Provider.Name == "" {
		return fmt.Errorf("provider.name: required")
	}
	return nil
}

func validCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Loader reads settings from a yaml file and can watch it for changes.
type Loader struct {
	v *viper.Viper
}

// NewLoader prepares a loader. path may be empty, in which case the
// default search locations are used and a missing file falls back to
// defaults.
func NewLoader(path string) *Loader {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("snaptran")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/snaptran")
	}

	v.SetDefault("translation.primary_language", "en")
	v.SetDefault("translation.second_language", "es")
	v.SetDefault("translation.session_timeout", 10)
	v.SetDefault("translation.smart_switch", true)
	v.SetDefault("provider.name", "mock")
	v.SetDefault("provider.timeout", 30)
	v.SetDefault("cache.capacity", 100)
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("history.capacity", 50)

	return &Loader{v: v}
}

// Load reads and validates the settings. A missing config file is not an
// error: defaults apply.
func (l *Loader) Load() (Settings, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Settings{}, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

// Watch reloads on file change and pushes each valid snapshot to onChange.
// Invalid snapshots are dropped so a half-saved file cannot poison the
// session.
func (l *Loader) Watch(onChange func(Settings)) {
	l.v.OnConfigChange(func(fsnotify.Event) {
		var s Settings
		if err := l.v.Unmarshal(&s); err != nil {
			return
		}
		if err := s.Validate(); err != nil {
			return
		}
		onChange(s)
	})
	l.v.WatchConfig()
}
