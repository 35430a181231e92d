package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunedeck/internal/infra/audio"
)

const sampleYAML = `
server:
  addr: ":9090"
playback:
  poll_interval_ms: 250
audio:
  backend: virtual
  settings:
    sample_rate: 48000
tracks:
  - title: Sunrise
    artist: Lumen
    src: music/sunrise.mp3
    img: art/sunrise.png
    color: "#ffaa00"
  - src: music/untitled.wav
`

func TestParse_Sample(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Playback.PollInterval())
	assert.Equal(t, 64, cfg.Playback.EventBuffer, "default applied")
	assert.False(t, cfg.Playback.Autoplay)
	assert.Equal(t, audio.BackendVirtual, cfg.Audio.Backend)
	assert.Equal(t, 48000, cfg.Audio.Settings["sample_rate"])

	tracks := cfg.PlaylistTracks()
	require.Len(t, tracks, 2)
	assert.Equal(t, "Sunrise", tracks[0].Title)
	assert.Equal(t, "Lumen", tracks[0].Artist)
	assert.Equal(t, "music/sunrise.mp3", tracks[0].Source)
	assert.Equal(t, "art/sunrise.png", tracks[0].Image)
	assert.Equal(t, "#ffaa00", tracks[0].Color)
	assert.Equal(t, "music/untitled.wav", tracks[1].Source)
	assert.Empty(t, tracks[1].Title)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("tracks:\n  - src: a.mp3\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 100*time.Millisecond, cfg.Playback.PollInterval())
	assert.Equal(t, audio.BackendVirtual, cfg.Audio.Backend)
	assert.False(t, cfg.RequiresControlToken())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Addr: ":8080"},
			Playback: PlaybackConfig{PollIntervalMs: 100, EventBuffer: 64},
			Audio:    AudioConfig{Backend: audio.BackendVirtual},
			Tracks:   []TrackConfig{{Source: "a.mp3"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "no tracks",
			mutate:  func(c *Config) { c.Tracks = nil },
			wantErr: true,
			errMsg:  "Tracks",
		},
		{
			name:    "missing source",
			mutate:  func(c *Config) { c.Tracks = []TrackConfig{{Title: "No source"}} },
			wantErr: true,
			errMsg:  "Source",
		},
		{
			name:    "invalid colour",
			mutate:  func(c *Config) { c.Tracks[0].Color = "not-a-colour" },
			wantErr: true,
			errMsg:  "Color",
		},
		{
			name:    "rgb colour",
			mutate:  func(c *Config) { c.Tracks[0].Color = "rgb(12,34,56)" },
			wantErr: false,
		},
		{
			name:    "poll interval too small",
			mutate:  func(c *Config) { c.Playback.PollIntervalMs = 1 },
			wantErr: true,
			errMsg:  "PollIntervalMs",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Audio.Backend = "alsa" },
			wantErr: true,
			errMsg:  "Backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestParse_EnvOverride(t *testing.T) {
	t.Setenv("TUNEDECK_CONTROL_TOKEN", "secret")
	t.Setenv("TUNEDECK_AUDIO_BACKEND", "speaker")

	cfg, err := Parse([]byte("tracks:\n  - src: a.mp3\n"))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Server.ControlToken)
	assert.True(t, cfg.RequiresControlToken())
	assert.Equal(t, audio.BackendSpeaker, cfg.Audio.Backend)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("tracks: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Tracks, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_BackendNamesMatchAudio(t *testing.T) {
	for _, backend := range []string{audio.BackendSpeaker, audio.BackendVirtual} {
		cfg := Config{
			Server:   ServerConfig{Addr: ":8080"},
			Playback: PlaybackConfig{PollIntervalMs: 100, EventBuffer: 64},
			Audio:    AudioConfig{Backend: backend},
			Tracks:   []TrackConfig{{Source: "a.mp3"}},
		}
		assert.NoError(t, cfg.Validate(), backend)
	}

	cfg, err := Parse([]byte("tracks:\n  - src: a.mp3\n"))
	require.NoError(t, err)
	_, err = audio.NewFactory(cfg.Audio.Backend, cfg.Audio.Settings)
	assert.NoError(t, err, "default backend must be known to the audio package")
}
