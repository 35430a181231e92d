package playback

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/domain/playlist"
	"github.com/osa030/tunedeck/internal/domain/track"
)

// Errors
var (
	ErrEmptyPlaylist   = errors.New("playlist is empty")
	ErrIndexOutOfRange = errors.New("track index out of range")
	ErrClosed          = errors.New("controller is closed")
	ErrNoEngineFactory = errors.New("engine factory is required")
)

// DefaultPollInterval is the period of the progress polling task.
const DefaultPollInterval = 100 * time.Millisecond

// DefaultEventBuffer is the capacity of the event channel.
const DefaultEventBuffer = 64

// maxSeekSeconds is the largest seek position representable as a Duration.
const maxSeekSeconds = float64(math.MaxInt64) / float64(time.Second)

// Config holds controller configuration.
type Config struct {
	PollInterval time.Duration // Period of the polling task
	EventBuffer  int           // Capacity of the event channel
	Autoplay     bool          // Start in the playing state
}

// Controller owns the playlist position, the play/pause intent and the
// engine bound to the current track.
//
// All operations and polling ticks run under one mutex, so they never
// interleave. Each operation publishes a status snapshot on the event
// channel; Status can be read at any time.
type Controller struct {
	mu sync.Mutex

	playlist *playlist.Playlist
	factory  EngineFactory
	config   Config

	// Playback state
	index    int
	playing  bool
	progress time.Duration
	duration time.Duration

	// Engine bound to playlist.At(index). generation increments on every
	// rebind so ticks aimed at a released engine are dropped.
	engine     Engine
	generation uint64

	// Polling
	pollCancel func()

	// Events
	eventCh chan Event

	// Context
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewController creates a controller positioned on the first track, paused
// unless Autoplay is set, and starts polling.
func NewController(pl *playlist.Playlist, factory EngineFactory, config Config) (*Controller, error) {
	if pl == nil || pl.Len() == 0 {
		return nil, ErrEmptyPlaylist
	}
	if factory == nil {
		return nil, ErrNoEngineFactory
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = DefaultEventBuffer
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		playlist: pl,
		factory:  factory,
		config:   config,
		playing:  config.Autoplay,
		eventCh:  make(chan Event, config.EventBuffer),
		ctx:      ctx,
		cancel:   cancel,
	}

	c.mu.Lock()
	c.loadTrackLocked()
	c.mu.Unlock()

	return c, nil
}

// Events returns the event channel. It is closed by Close.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Play sets the playing state and starts the engine.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.setPlayingLocked(true)
	return nil
}

// Pause clears the playing state and pauses the engine.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.setPlayingLocked(false)
	return nil
}

// PlayPause toggles between playing and paused.
func (c *Controller) PlayPause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.setPlayingLocked(!c.playing)
	return nil
}

// Next moves to the following track, wrapping after the last one.
// The playing state carries over to the new track. A single-track
// playlist keeps its engine untouched.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.nextLocked()
	return nil
}

// Prev moves to the preceding track, wrapping before the first one.
func (c *Controller) Prev() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.moveToLocked(c.playlist.Prev(c.index))
	return nil
}

// SelectTrack jumps to the track at index i and starts playing it.
// Selecting the current track keeps its position and only resumes it.
func (c *Controller) SelectTrack(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if !c.playlist.Contains(i) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d (playlist has %d tracks)", i, c.playlist.Len())
	}

	if i == c.index {
		c.setPlayingLocked(true)
		return nil
	}

	wasPlaying := c.playing
	c.playing = true
	c.index = i
	c.loadTrackLocked()
	if !wasPlaying {
		c.sendEventLocked(Event{Type: EventStateChanged, Status: c.statusLocked()})
	}
	return nil
}

// SeekStart begins a manual seek: polling stops and the engine jumps to
// the given position in seconds. NaN and infinite values are ignored.
// The position is clamped to [0, duration] once the duration is known.
func (c *Controller) SeekStart(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil
	}

	// Saturate before converting; larger values overflow int64 nanoseconds
	var pos time.Duration
	switch {
	case seconds >= maxSeekSeconds:
		pos = math.MaxInt64
	case seconds <= -maxSeekSeconds:
		pos = 0
	default:
		pos = time.Duration(seconds * float64(time.Second))
	}
	if pos < 0 {
		pos = 0
	}
	if c.duration > 0 && pos > c.duration {
		pos = c.duration
	}

	c.stopPollingLocked()
	if err := c.engine.Seek(pos); err != nil {
		c.engineErrorLocked(errors.Wrap(err, "seek"))
	}
	c.progress = pos

	c.sendEventLocked(Event{Type: EventSeeked, Status: c.statusLocked()})
	return nil
}

// SeekEnd finishes a manual seek. A seek that landed on the end of the
// track counts as completion and advances to the next track; otherwise the
// playing state is re-applied. Polling restarts in both cases.
func (c *Controller) SeekEnd() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	pos, dur := c.engine.Position(), c.engine.Duration()
	if dur > 0 && pos >= dur {
		zlog.Debug().Msgf("playback: seek reached end of track: index=%d position=%v", c.index, pos)
		c.nextLocked()
	} else {
		c.applyPlayingLocked()
	}
	c.startPollingLocked()
	return nil
}

// Status returns a snapshot of the current state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// Tracks returns a copy of the playlist tracks.
func (c *Controller) Tracks() []track.Track {
	return c.playlist.Tracks()
}

// Close pauses and releases the engine, stops polling and closes the
// event channel. It is safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.stopPollingLocked()
	c.releaseEngineLocked()
	c.cancel()
	close(c.eventCh)
}

// nextLocked advances the index and rebinds the engine. It reports false
// when the index did not change, as with a single-track playlist.
// Must be called with lock held.
func (c *Controller) nextLocked() bool {
	return c.moveToLocked(c.playlist.Next(c.index))
}

// moveToLocked rebinds the engine only if i differs from the current index.
// Must be called with lock held.
func (c *Controller) moveToLocked(i int) bool {
	if i == c.index {
		return false
	}
	c.index = i
	c.loadTrackLocked()
	return true
}

// loadTrackLocked binds a fresh engine to the track at c.index.
// Must be called with lock held.
func (c *Controller) loadTrackLocked() {
	c.stopPollingLocked()
	c.releaseEngineLocked()

	t := c.playlist.At(c.index)
	engine, err := c.factory(t.Source)
	if err != nil {
		zlog.Error().Err(err).Msgf("playback: failed to load track: index=%d source=%s", c.index, t.Source)
		engine = silentEngine{}
		c.engineErrorLocked(errors.Wrapf(err, "load %s", t.Source))
	}

	c.generation++
	c.engine = engine
	c.progress = engine.Position()
	c.duration = engine.Duration()

	zlog.Debug().Msgf("playback: track loaded: index=%d title=%s playing=%v", c.index, t.Title, c.playing)

	c.applyPlayingLocked()
	c.startPollingLocked()

	c.sendEventLocked(Event{Type: EventTrackChanged, Status: c.statusLocked()})
}

// releaseEngineLocked pauses and closes the current engine.
// Must be called with lock held.
func (c *Controller) releaseEngineLocked() {
	if c.engine == nil {
		return
	}
	if err := c.engine.Pause(); err != nil {
		zlog.Warn().Err(err).Msg("playback: failed to pause released engine")
	}
	if err := c.engine.Close(); err != nil {
		zlog.Warn().Err(err).Msg("playback: failed to close released engine")
	}
	c.engine = nil
}

// setPlayingLocked changes the playing intent and commands the engine.
// Nothing happens when the value is unchanged.
// Must be called with lock held.
func (c *Controller) setPlayingLocked(playing bool) {
	if c.playing == playing {
		return
	}
	c.playing = playing
	c.applyPlayingLocked()
	c.sendEventLocked(Event{Type: EventStateChanged, Status: c.statusLocked()})
}

// applyPlayingLocked commands the engine to match c.playing.
// Must be called with lock held.
func (c *Controller) applyPlayingLocked() {
	var err error
	if c.playing {
		err = c.engine.Play()
	} else {
		err = c.engine.Pause()
	}
	if err != nil {
		c.engineErrorLocked(errors.Wrapf(err, "apply %s", stateOf(c.playing)))
	}
}

// engineErrorLocked logs and publishes an engine failure.
// Must be called with lock held.
func (c *Controller) engineErrorLocked(err error) {
	zlog.Warn().Err(err).Msgf("playback: engine error: index=%d", c.index)
	c.sendEventLocked(Event{Type: EventEngineError, Status: c.statusLocked(), Err: err})
}

// startPollingLocked (re)starts the polling task for the current engine.
// Must be called with lock held.
func (c *Controller) startPollingLocked() {
	c.stopPollingLocked()

	ctx, cancel := context.WithCancel(c.ctx)
	c.pollCancel = cancel
	go c.poll(ctx, c.generation)
}

// stopPollingLocked cancels the polling task if one is running.
// Must be called with lock held.
func (c *Controller) stopPollingLocked() {
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
}

// poll runs the polling loop until ctx is cancelled.
func (c *Controller) poll(ctx context.Context, generation uint64) {
	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx, generation)
		}
	}
}

// tick performs one polling step unless the loop was superseded while
// waiting for the lock.
func (c *Controller) tick(ctx context.Context, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil || generation != c.generation || c.closed {
		return
	}
	c.tickLocked()
}

// tickLocked advances on track completion or republishes engine progress.
// An ended track with nowhere to advance to stays ended.
// Must be called with lock held.
func (c *Controller) tickLocked() {
	if c.engine.Ended() {
		ended := c.index
		if c.nextLocked() {
			zlog.Debug().Msgf("playback: track ended: index=%d", ended)
			return
		}
	}

	dur := c.engine.Duration()
	pos := c.engine.Position()
	if pos < 0 {
		pos = 0
	}
	if dur > 0 && pos > dur {
		pos = dur
	}
	if dur == c.duration && pos == c.progress {
		return
	}

	c.duration = dur
	c.progress = pos
	c.sendEventLocked(Event{Type: EventProgress, Status: c.statusLocked()})
}

// statusLocked builds a snapshot.
// Must be called with lock held.
func (c *Controller) statusLocked() Status {
	return Status{
		Track:    c.playlist.At(c.index),
		Index:    c.index,
		Playing:  c.playing,
		Progress: c.progress,
		Duration: c.duration,
	}
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (c *Controller) sendEventLocked(e Event) {
	if c.closed {
		return
	}
	select {
	case c.eventCh <- e:
	default:
		// Channel full, drop event; Status still reflects the latest state
	}
}
