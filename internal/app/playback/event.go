package playback

// EventType represents a playback event type.
type EventType int

const (
	EventTrackChanged EventType = iota // A new engine was bound to the current index
	EventStateChanged                  // Playing/paused changed
	EventProgress                      // Polling published new progress or duration
	EventSeeked                        // A manual seek moved the position
	EventEngineError                   // The engine failed to load or follow a command
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackChanged:
		return "track_changed"
	case EventStateChanged:
		return "state_changed"
	case EventProgress:
		return "progress"
	case EventSeeked:
		return "seeked"
	case EventEngineError:
		return "engine_error"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type   EventType
	Status Status // Snapshot taken when the event was emitted
	Err    error  // Set for EventEngineError
}
