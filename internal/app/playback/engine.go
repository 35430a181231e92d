package playback

import "time"

// Engine is the audio playback primitive bound to a single source.
// A controller owns at most one live Engine at a time.
type Engine interface {
	Play() error
	Pause() error
	Seek(pos time.Duration) error
	Position() time.Duration
	// Duration returns 0 while the length is not known yet.
	Duration() time.Duration
	Ended() bool
	Close() error
}

// EngineFactory constructs an engine bound to the given source locator.
type EngineFactory func(source string) (Engine, error)

// silentEngine stands in for an engine that failed to load.
// It never ends, so a broken track stays selected until the user moves on.
type silentEngine struct{}

func (silentEngine) Play() error              { return nil }
func (silentEngine) Pause() error             { return nil }
func (silentEngine) Seek(time.Duration) error { return nil }
func (silentEngine) Position() time.Duration  { return 0 }
func (silentEngine) Duration() time.Duration  { return 0 }
func (silentEngine) Ended() bool              { return false }
func (silentEngine) Close() error             { return nil }
