package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunedeck/internal/domain/track"
)

func threeTracks() []track.Track {
	return []track.Track{
		{Title: "One", Source: "one.mp3"},
		{Title: "Two", Source: "two.mp3"},
		{Title: "Three", Source: "three.mp3"},
	}
}

func TestPlaylist_DefensiveCopy(t *testing.T) {
	tracks := threeTracks()
	p := New(tracks)

	tracks[0].Title = "Changed"
	assert.Equal(t, "One", p.At(0).Title, "playlist must not observe caller mutation")

	got := p.Tracks()
	got[1].Title = "Changed"
	assert.Equal(t, "Two", p.At(1).Title, "Tracks must return a copy")
}

func TestPlaylist_NextWraps(t *testing.T) {
	p := New(threeTracks())

	for start := 0; start < p.Len(); start++ {
		for n := 0; n < 10; n++ {
			idx := start
			for i := 0; i < n; i++ {
				idx = p.Next(idx)
			}
			assert.Equal(t, (start+n)%p.Len(), idx, "start=%d n=%d", start, n)
		}
	}
}

func TestPlaylist_PrevWraps(t *testing.T) {
	p := New(threeTracks())

	for start := 0; start < p.Len(); start++ {
		for n := 0; n < 10; n++ {
			idx := start
			for i := 0; i < n; i++ {
				idx = p.Prev(idx)
			}
			expected := ((start-n)%p.Len() + p.Len()) % p.Len()
			assert.Equal(t, expected, idx, "start=%d n=%d", start, n)
		}
	}
}

func TestPlaylist_NextSequence(t *testing.T) {
	p := New(threeTracks())

	idx := 0
	var seen []int
	for i := 0; i < 3; i++ {
		idx = p.Next(idx)
		seen = append(seen, idx)
	}
	assert.Equal(t, []int{1, 2, 0}, seen)
}

func TestPlaylist_Contains(t *testing.T) {
	p := New(threeTracks())

	tests := []struct {
		index    int
		expected bool
	}{
		{-1, false},
		{0, true},
		{2, true},
		{3, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, p.Contains(tt.index), "index=%d", tt.index)
	}
}

func TestPlaylist_Empty(t *testing.T) {
	p := New(nil)

	require.Equal(t, 0, p.Len())
	assert.Equal(t, 0, p.Next(0))
	assert.Equal(t, 0, p.Prev(0))
	assert.Empty(t, p.Tracks())
}
