package connect

import (
	"math"
	"time"

	"github.com/osa030/tunedeck/internal/app/notification"
	"github.com/osa030/tunedeck/internal/app/playback"
	"github.com/osa030/tunedeck/internal/app/session"
	"github.com/osa030/tunedeck/internal/domain/track"
)

// Empty is the request of calls that take no arguments.
type Empty struct{}

// SelectTrackRequest selects a playlist index.
type SelectTrackRequest struct {
	Index int `json:"index"`
}

// SeekStartRequest moves the playhead. A missing value is ignored.
type SeekStartRequest struct {
	Seconds *float64 `json:"seconds,omitempty"`
}

// position returns the requested seconds, NaN when absent.
func (r *SeekStartRequest) position() float64 {
	if r == nil || r.Seconds == nil {
		return math.NaN()
	}
	return *r.Seconds
}

// TrackMessage describes one playlist entry.
type TrackMessage struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	Source string `json:"source"`
	Image  string `json:"image,omitempty"`
	Color  string `json:"color,omitempty"`
}

// StatusMessage is a playback status snapshot.
type StatusMessage struct {
	Track           TrackMessage `json:"track"`
	Index           int          `json:"index"`
	State           string       `json:"state"`
	Playing         bool         `json:"playing"`
	ProgressSeconds float64      `json:"progress_seconds"`
	DurationSeconds float64      `json:"duration_seconds"`
}

// GetStatusResponse carries the status and the session it belongs to.
type GetStatusResponse struct {
	SessionID string        `json:"session_id"`
	Phase     string        `json:"phase"`
	StartedAt string        `json:"started_at,omitempty"`
	Status    StatusMessage `json:"status"`
}

// ListTracksResponse lists the playlist.
type ListTracksResponse struct {
	Tracks  []TrackMessage `json:"tracks"`
	Current int            `json:"current"`
}

// StatusNotification is one message of the WatchStatus stream.
type StatusNotification struct {
	SequenceNo uint64        `json:"sequence_no"`
	Event      string        `json:"event"`
	Status     StatusMessage `json:"status"`
}

func toTrackMessage(index int, t track.Track) TrackMessage {
	return TrackMessage{
		Index:  index,
		Title:  t.Title,
		Artist: t.Artist,
		Source: t.Source,
		Image:  t.Image,
		Color:  t.Color,
	}
}

func toStatusMessage(s playback.Status) *StatusMessage {
	return &StatusMessage{
		Track:           toTrackMessage(s.Index, s.Track),
		Index:           s.Index,
		State:           s.State().String(),
		Playing:         s.Playing,
		ProgressSeconds: s.ProgressSeconds(),
		DurationSeconds: s.DurationSeconds(),
	}
}

func toStatusNotification(n notification.Notification) *StatusNotification {
	return &StatusNotification{
		SequenceNo: n.SequenceNo,
		Event:      n.Event,
		Status:     *toStatusMessage(n.Status),
	}
}

func toGetStatusResponse(info session.Info, s playback.Status) *GetStatusResponse {
	resp := &GetStatusResponse{
		SessionID: info.SessionID,
		Phase:     info.Phase.String(),
		Status:    *toStatusMessage(s),
	}
	if info.StartedAt != nil {
		resp.StartedAt = info.StartedAt.Format(time.RFC3339)
	}
	return resp
}
