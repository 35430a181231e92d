package audio

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Settings tunes the speaker backend. It is decoded from the free-form
// audio.settings map of the configuration.
type Settings struct {
	SampleRate      int `mapstructure:"sample_rate" default:"44100" validate:"oneof=22050 44100 48000 96000"`
	BufferMs        int `mapstructure:"buffer_ms" default:"100" validate:"gte=10,lte=1000"`
	ResampleQuality int `mapstructure:"resample_quality" default:"4" validate:"gte=1,lte=64"`
}

// Buffer returns the speaker buffer length.
func (s Settings) Buffer() time.Duration {
	return time.Duration(s.BufferMs) * time.Millisecond
}

// ParseSettings decodes, defaults and validates backend settings.
func ParseSettings(settings map[string]any) (Settings, error) {
	var s Settings

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &s,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return Settings{}, errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(settings); err != nil {
		return Settings{}, errors.Wrap(err, "failed to decode audio settings")
	}

	if err := defaults.Set(&s); err != nil {
		return Settings{}, errors.Wrap(err, "failed to set defaults")
	}

	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return Settings{}, errors.Wrap(err, "invalid audio settings")
	}

	return s, nil
}
