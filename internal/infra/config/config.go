// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Playback PlaybackConfig `yaml:"playback"`
	Audio    AudioConfig    `yaml:"audio"`
	Tracks   []TrackConfig  `yaml:"tracks" validate:"required,min=1,dive"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr         string      `yaml:"addr" default:":8080"`
	ControlToken string      `yaml:"control_token"`
	Hooks        HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// PlaybackConfig represents playback controller configuration.
type PlaybackConfig struct {
	PollIntervalMs int  `yaml:"poll_interval_ms" default:"100" validate:"gte=10,lte=5000"`
	EventBuffer    int  `yaml:"event_buffer" default:"64" validate:"gte=1,lte=4096"`
	Autoplay       bool `yaml:"autoplay"`
}

// PollInterval returns the polling period as a duration.
func (p PlaybackConfig) PollInterval() time.Duration {
	return time.Duration(p.PollIntervalMs) * time.Millisecond
}

// AudioConfig selects and tunes the audio engine.
type AudioConfig struct {
	// One of audio.BackendSpeaker or audio.BackendVirtual
	Backend  string         `yaml:"backend" default:"virtual" validate:"oneof=speaker virtual"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// TrackConfig represents one playlist entry.
type TrackConfig struct {
	Title  string `yaml:"title"`
	Artist string `yaml:"artist"`
	Source string `yaml:"src" validate:"required"`
	Image  string `yaml:"img"`
	Color  string `yaml:"color" validate:"omitempty,iscolor"`
}

// Track converts the entry to a domain track.
func (t TrackConfig) Track() track.Track {
	return track.Track{
		Title:  t.Title,
		Artist: t.Artist,
		Source: t.Source,
		Image:  t.Image,
		Color:  t.Color,
	}
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes, applying environment
// overrides, defaults and validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("TUNEDECK_CONTROL_TOKEN"); v != "" {
		c.Server.ControlToken = v
	}
	if v := os.Getenv("TUNEDECK_AUDIO_BACKEND"); v != "" {
		c.Audio.Backend = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// PlaylistTracks returns the configured tracks as domain tracks.
func (c *Config) PlaylistTracks() []track.Track {
	tracks := make([]track.Track, len(c.Tracks))
	for i, t := range c.Tracks {
		tracks[i] = t.Track()
	}
	return tracks
}

// RequiresControlToken reports whether control calls must carry a token.
func (c *Config) RequiresControlToken() bool {
	return c.Server.ControlToken != ""
}
