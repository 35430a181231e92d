package playback

import (
	"time"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// Status is a read-only snapshot of the controller state.
type Status struct {
	Track    track.Track   // Current track
	Index    int           // Current playlist index
	Playing  bool          // Whether playback is intended to run
	Progress time.Duration // Position within the current track
	Duration time.Duration // Length of the current track, 0 while unknown
}

// State returns the playback state implied by the snapshot.
func (s Status) State() State {
	return stateOf(s.Playing)
}

// ProgressSeconds returns the progress in seconds.
func (s Status) ProgressSeconds() float64 {
	return s.Progress.Seconds()
}

// DurationSeconds returns the duration in seconds.
func (s Status) DurationSeconds() float64 {
	return s.Duration.Seconds()
}
