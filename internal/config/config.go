// Package config provides configuration types and defaults for pulse.
package config

import (
	"time"

	"github.com/mwhitt/pulse/internal/audio"
	"github.com/mwhitt/pulse/internal/events"
	"github.com/mwhitt/pulse/internal/timer"
)

// Config holds all configuration for pulse.
type Config struct {
	Timer       timer.Config      `yaml:"timer" mapstructure:"timer"`
	Sound       SoundConfig       `yaml:"sound" mapstructure:"sound"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
}

// SoundConfig holds audio cue settings.
type SoundConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Tones overrides the default tone per cue kind; unknown keys are
	// ignored, missing keys keep their defaults.
	Tones map[string]audio.Tone `yaml:"tones" mapstructure:"tones"`
}

// ToneTable merges configured tone overrides onto the defaults.
func (s SoundConfig) ToneTable() map[events.CueKind]audio.Tone {
	table := audio.DefaultTones()
	for name, tone := range s.Tones {
		kind := events.CueKind(name)
		if _, ok := table[kind]; ok {
			table[kind] = tone
		}
	}
	return table
}

// PathsConfig holds file paths for the session log and workout history.
type PathsConfig struct {
	Log     string `yaml:"log" mapstructure:"log"`
	History string `yaml:"history" mapstructure:"history"`
}

// LogRotationConfig holds settings for the TUI debug log rotation
// (lumberjack-based).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// Default returns a Config with sensible defaults: the tabata protocol,
// sound on, state under .pulse/.
func Default() *Config {
	return &Config{
		Timer: timer.Config{
			WorkSeconds:  20,
			RestSeconds:  10,
			Rounds:       8,
			ReadySeconds: timer.DefaultReadySeconds,
			CueWindow:    timer.DefaultCueWindow,
		},
		Sound: SoundConfig{
			Enabled: true,
		},
		Paths: PathsConfig{
			Log:     ".pulse/session.log",
			History: ".pulse/history.json",
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Preset is a named, ready-to-run interval configuration.
type Preset struct {
	Name        string
	Description string
	Timer       timer.Config
}

// Presets returns the built-in workout presets, in display order.
func Presets() []Preset {
	return []Preset{
		{
			Name:        "tabata",
			Description: "classic tabata protocol",
			Timer:       timer.Config{WorkSeconds: 20, RestSeconds: 10, Rounds: 8},
		},
		{
			Name:        "hiit",
			Description: "longer high-intensity intervals",
			Timer:       timer.Config{WorkSeconds: 45, RestSeconds: 15, Rounds: 10},
		},
		{
			Name:        "boxing",
			Description: "three-minute rounds with a minute between",
			Timer:       timer.Config{WorkSeconds: 180, RestSeconds: 60, Rounds: 12},
		},
		{
			Name:        "emom",
			Description: "every minute on the minute, work the first 40s",
			Timer:       timer.Config{WorkSeconds: 40, RestSeconds: 20, Rounds: 10},
		},
		{
			Name:        "stretch",
			Description: "gentle hold-and-release stretching",
			Timer:       timer.Config{WorkSeconds: 30, RestSeconds: 5, Rounds: 6},
		},
	}
}

// FindPreset looks up a preset by name.
func FindPreset(name string) (Preset, bool) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// EstimatedDuration is the configured workout length for display:
// ready warm-up plus rounds x (work + rest).
func EstimatedDuration(cfg timer.Config) time.Duration {
	ready := cfg.ReadySeconds
	if ready == 0 {
		ready = timer.DefaultReadySeconds
	}
	return time.Duration(ready+cfg.TotalConfiguredSeconds()) * time.Second
}
