package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	apiconnect "github.com/osa030/tunedeck/internal/api/connect"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "0:00"},
		{9.9, "0:09"},
		{61, "1:01"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSeconds(tt.sec))
	}
}

func TestPrintNotification(t *testing.T) {
	var buf bytes.Buffer
	printNotification(&buf, &apiconnect.StatusNotification{
		SequenceNo: 7,
		Event:      "track_changed",
		Status: apiconnect.StatusMessage{
			Track:           apiconnect.TrackMessage{Title: "Song", Artist: "Band"},
			Index:           2,
			State:           "playing",
			Playing:         true,
			ProgressSeconds: 5,
			DurationSeconds: 125,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "[Sequence: 7]")
	assert.Contains(t, out, "TRACK CHANGED")
	assert.Contains(t, out, "[2] Band - Song")
	assert.Contains(t, out, "0:05 / 2:05")
}

func TestPrintTracks(t *testing.T) {
	var buf bytes.Buffer
	printTracks(&buf, &apiconnect.ListTracksResponse{
		Tracks: []apiconnect.TrackMessage{
			{Index: 0, Title: "One"},
			{Index: 1, Title: "Two", Artist: "B"},
		},
		Current: 1,
	})

	out := buf.String()
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "One")
	assert.Contains(t, out, "▶")
	assert.Contains(t, out, "Two")
}
