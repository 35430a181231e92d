package audio

import (
	"sync"
	"time"

	"github.com/osa030/tunedeck/internal/app/playback"
)

var _ playback.Engine = (*VirtualEngine)(nil)

// VirtualEngine plays nothing: it advances a clock while playing, bounded
// by the track duration. It lets the server run without an audio device.
type VirtualEngine struct {
	mu sync.Mutex

	duration  time.Duration
	now       func() time.Time
	playing   bool
	base      time.Duration // position at the last play, pause or seek
	startedAt time.Time     // wall time of the last play or seek while playing
	closed    bool
}

// NewVirtualEngine creates a paused engine at position 0.
func NewVirtualEngine(duration time.Duration, now func() time.Time) *VirtualEngine {
	if now == nil {
		now = time.Now
	}
	return &VirtualEngine{duration: duration, now: now}
}

func (e *VirtualEngine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.playing {
		return nil
	}
	// Playing a finished track starts it over
	if e.endedLocked() {
		e.base = 0
	}
	e.playing = true
	e.startedAt = e.now()
	return nil
}

func (e *VirtualEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing {
		e.base = e.positionLocked()
		e.playing = false
	}
	return nil
}

func (e *VirtualEngine) Seek(pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if pos < 0 {
		pos = 0
	}
	if e.duration > 0 && pos > e.duration {
		pos = e.duration
	}
	e.base = pos
	e.startedAt = e.now()
	return nil
}

func (e *VirtualEngine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

func (e *VirtualEngine) Duration() time.Duration {
	return e.duration
}

func (e *VirtualEngine) Ended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.endedLocked()
}

func (e *VirtualEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing {
		e.base = e.positionLocked()
		e.playing = false
	}
	e.closed = true
	return nil
}

func (e *VirtualEngine) positionLocked() time.Duration {
	pos := e.base
	if e.playing {
		pos += e.now().Sub(e.startedAt)
	}
	if e.duration > 0 && pos > e.duration {
		pos = e.duration
	}
	return pos
}

func (e *VirtualEngine) endedLocked() bool {
	return e.duration > 0 && e.positionLocked() >= e.duration
}
