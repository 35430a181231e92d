// Package metadata fills in track details from embedded audio tags.
package metadata

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dhowden/tag"
	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// Tags holds the subset of embedded tags used for display.
type Tags struct {
	Title  string
	Artist string
}

// Read reads embedded tags from a local audio file.
func Read(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}, errors.Wrap(err, "failed to read tags")
	}

	artist := m.Artist()
	if artist == "" {
		artist = m.AlbumArtist()
	}
	return Tags{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(artist),
	}, nil
}

// Enrich returns t with a missing title or artist taken from the file's
// tags. Configured values always win. A track that still has no title is
// named after its file.
func Enrich(t track.Track) track.Track {
	if t.Title != "" && t.Artist != "" {
		return t
	}

	if !t.IsRemote() {
		tags, err := Read(t.Source)
		if err != nil {
			zlog.Debug().Msgf("metadata: no tags: source=%s err=%v", t.Source, err)
		} else {
			if t.Title == "" {
				t.Title = tags.Title
			}
			if t.Artist == "" {
				t.Artist = tags.Artist
			}
		}
	}

	if t.Title == "" {
		t.Title = t.FallbackTitle()
	}
	return t
}

// EnrichAll applies Enrich to every track and returns a new slice.
func EnrichAll(tracks []track.Track) []track.Track {
	return lo.Map(tracks, func(t track.Track, _ int) track.Track {
		return Enrich(t)
	})
}
