// Package playback provides the playlist playback controller.
package playback

// State represents the playback state.
type State int

const (
	StatePaused  State = iota // Track is loaded but not playing
	StatePlaying              // Track is playing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// stateOf maps the playing flag to a State.
func stateOf(playing bool) State {
	if playing {
		return StatePlaying
	}
	return StatePaused
}
