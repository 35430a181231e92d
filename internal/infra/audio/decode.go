// Package audio provides playback engines backed by gopxl/beep.
package audio

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// Errors
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrRemoteSource      = errors.New("remote sources are not supported")
	ErrEngineClosed      = errors.New("engine is closed")
	ErrUnknownBackend    = errors.New("unknown audio backend")
)

// Decode opens a local audio file and returns a seekable stream.
// The format is chosen by file extension.
func Decode(source string) (beep.StreamSeekCloser, beep.Format, error) {
	t := track.Track{Source: source}
	if t.IsRemote() {
		return nil, beep.Format{}, errors.Wrapf(ErrRemoteSource, "source %s", source)
	}

	ext := t.Extension()
	switch ext {
	case ".mp3", ".wav", ".flac":
	default:
		return nil, beep.Format{}, errors.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, beep.Format{}, errors.Wrap(err, "failed to open audio file")
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, errors.Wrapf(err, "failed to decode %s", source)
	}

	return streamer, format, nil
}

// ProbeDuration decodes the source just far enough to learn its length.
func ProbeDuration(source string) (time.Duration, error) {
	streamer, format, err := Decode(source)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}
