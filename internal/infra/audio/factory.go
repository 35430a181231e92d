package audio

import (
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/app/playback"
)

// Backend names.
const (
	BackendSpeaker = "speaker"
	BackendVirtual = "virtual"
)

// NewFactory returns an engine factory for the named backend.
// The speaker is initialised here so a missing audio device fails at
// startup rather than on the first track.
func NewFactory(backend string, settings map[string]any) (playback.EngineFactory, error) {
	s, err := ParseSettings(settings)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendSpeaker:
		if err := initSpeaker(s); err != nil {
			return nil, errors.Wrap(err, "failed to initialise speaker")
		}
		zlog.Info().Msgf("audio: speaker ready: sample_rate=%d buffer=%v", s.SampleRate, s.Buffer())
		return func(source string) (playback.Engine, error) {
			e, err := NewSpeakerEngine(source, s)
			if err != nil {
				return nil, err
			}
			return e, nil
		}, nil

	case BackendVirtual:
		zlog.Info().Msg("audio: using virtual backend (no sound output)")
		return func(source string) (playback.Engine, error) {
			d, err := ProbeDuration(source)
			if err != nil {
				return nil, err
			}
			return NewVirtualEngine(d, time.Now), nil
		}, nil

	default:
		return nil, errors.Wrapf(ErrUnknownBackend, "backend %q", backend)
	}
}
