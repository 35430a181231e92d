//go:build linux && !cgo

package audio

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tunedeck/internal/app/playback"
)

// AudioAvailable indicates whether speaker output is supported in this build.
// Linux audio output requires cgo.
const AudioAvailable = false

// ErrAudioUnavailable is returned when the speaker cannot be used.
var ErrAudioUnavailable = errors.New("audio output is not available (built without cgo)")

var _ playback.Engine = (*SpeakerEngine)(nil)

func initSpeaker(Settings) error {
	return ErrAudioUnavailable
}

// SpeakerEngine is a placeholder for builds without cgo.
type SpeakerEngine struct{}

// NewSpeakerEngine always fails when cgo is disabled.
func NewSpeakerEngine(string, Settings) (*SpeakerEngine, error) {
	return nil, ErrAudioUnavailable
}

func (*SpeakerEngine) Play() error              { return ErrAudioUnavailable }
func (*SpeakerEngine) Pause() error             { return nil }
func (*SpeakerEngine) Seek(time.Duration) error { return ErrAudioUnavailable }
func (*SpeakerEngine) Position() time.Duration  { return 0 }
func (*SpeakerEngine) Duration() time.Duration  { return 0 }
func (*SpeakerEngine) Ended() bool              { return false }
func (*SpeakerEngine) Close() error             { return nil }
