//go:build !linux || cgo

package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/osa030/tunedeck/internal/app/playback"
)

// AudioAvailable indicates whether speaker output is supported in this build.
const AudioAvailable = true

// ErrAudioUnavailable is returned when the speaker cannot be used.
var ErrAudioUnavailable = errors.New("audio output is not available")

var _ playback.Engine = (*SpeakerEngine)(nil)

// The speaker is process-wide and can only be initialised once.
var (
	speakerOnce sync.Once
	speakerErr  error
	speakerRate beep.SampleRate
)

func initSpeaker(s Settings) error {
	speakerOnce.Do(func() {
		speakerRate = beep.SampleRate(s.SampleRate)
		if err := speaker.Init(speakerRate, speakerRate.N(s.Buffer())); err != nil {
			speakerErr = errors.Mark(errors.Wrap(err, "speaker init"), ErrAudioUnavailable)
		}
	})
	return speakerErr
}

// SpeakerEngine plays one decoded source through the shared speaker.
type SpeakerEngine struct {
	mu sync.Mutex

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	quality  int
	closed   bool

	// Written from the speaker goroutine
	attached atomic.Bool
	ended    atomic.Bool
}

// NewSpeakerEngine decodes the source and attaches it to the speaker, paused.
func NewSpeakerEngine(source string, s Settings) (*SpeakerEngine, error) {
	if err := initSpeaker(s); err != nil {
		return nil, err
	}

	streamer, format, err := Decode(source)
	if err != nil {
		return nil, err
	}

	e := &SpeakerEngine{
		streamer: streamer,
		format:   format,
		quality:  s.ResampleQuality,
	}

	e.mu.Lock()
	e.attachLocked(true)
	e.mu.Unlock()

	return e, nil
}

// attachLocked hands a fresh control chain to the speaker mixer.
// Must be called with lock held.
func (e *SpeakerEngine) attachLocked(paused bool) {
	resampled := beep.Resample(e.quality, e.format.SampleRate, speakerRate, e.streamer)
	ctrl := &beep.Ctrl{Streamer: resampled, Paused: paused}

	speaker.Lock()
	e.ctrl = ctrl
	speaker.Unlock()

	e.ended.Store(false)
	e.attached.Store(true)
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		e.attached.Store(false)
		e.ended.Store(true)
	})))
}

func (e *SpeakerEngine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	// Playing a finished track starts it over
	if e.ended.Load() {
		speaker.Lock()
		err := e.streamer.Seek(0)
		speaker.Unlock()
		if err != nil {
			return errors.Wrap(err, "failed to rewind")
		}
	}

	if !e.attached.Load() {
		e.attachLocked(false)
		return nil
	}

	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (e *SpeakerEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.ctrl == nil {
		return nil
	}

	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

func (e *SpeakerEngine) Seek(pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	speaker.Lock()
	defer speaker.Unlock()

	n := e.format.SampleRate.N(pos)
	if n < 0 {
		n = 0
	}
	if length := e.streamer.Len(); n > length {
		n = length
	}
	if err := e.streamer.Seek(n); err != nil {
		return errors.Wrap(err, "failed to seek")
	}
	if n < e.streamer.Len() {
		e.ended.Store(false)
	}
	return nil
}

func (e *SpeakerEngine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0
	}

	speaker.Lock()
	pos := e.streamer.Position()
	speaker.Unlock()

	return e.format.SampleRate.D(pos)
}

func (e *SpeakerEngine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Len())
}

func (e *SpeakerEngine) Ended() bool {
	return e.ended.Load()
}

// Close detaches the stream from the speaker and closes the decoder.
func (e *SpeakerEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	speaker.Lock()
	if e.ctrl != nil {
		e.ctrl.Paused = true
		e.ctrl.Streamer = nil
	}
	speaker.Unlock()

	return e.streamer.Close()
}
