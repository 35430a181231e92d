// Package playlist provides the Playlist domain entity.
package playlist

import "github.com/osa030/tunedeck/internal/domain/track"

// Playlist is a fixed, ordered sequence of tracks.
// The tracks are copied on construction so later changes to the caller's
// slice are not observed.
type Playlist struct {
	tracks []track.Track
}

// New creates a playlist from a copy of the given tracks.
func New(tracks []track.Track) *Playlist {
	copied := make([]track.Track, len(tracks))
	copy(copied, tracks)
	return &Playlist{tracks: copied}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// At returns the track at index i. It panics if i is out of range.
func (p *Playlist) At(i int) track.Track {
	return p.tracks[i]
}

// Contains reports whether i is a valid index.
func (p *Playlist) Contains(i int) bool {
	return i >= 0 && i < len(p.tracks)
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []track.Track {
	result := make([]track.Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Next returns the index following i, wrapping to 0 after the last track.
func (p *Playlist) Next(i int) int {
	return p.wrap(i + 1)
}

// Prev returns the index preceding i, wrapping to the last track before 0.
func (p *Playlist) Prev(i int) int {
	return p.wrap(i - 1)
}

func (p *Playlist) wrap(i int) int {
	n := len(p.tracks)
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}
