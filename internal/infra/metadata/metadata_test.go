package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// writeID3v1 writes a file consisting only of an ID3v1 tag block.
func writeID3v1(t *testing.T, name, title, artist string) string {
	t.Helper()

	block := make([]byte, 128)
	copy(block[0:3], "TAG")
	copy(block[3:33], title)
	copy(block[33:63], artist)
	block[127] = 255 // genre: none

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, block, 0644))
	return path
}

func TestRead_ID3v1(t *testing.T) {
	path := writeID3v1(t, "tagged.mp3", "Blue Hour", "Nightjar")

	tags, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "Blue Hour", tags.Title)
	assert.Equal(t, "Nightjar", tags.Artist)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "plain.mp3")
	require.NoError(t, os.WriteFile(path, []byte("no tags here"), 0644))
	_, err = Read(path)
	assert.Error(t, err)
}

func TestEnrich(t *testing.T) {
	tagged := writeID3v1(t, "tagged.mp3", "Blue Hour", "Nightjar")

	tests := []struct {
		name     string
		input    track.Track
		expected track.Track
	}{
		{
			name:     "tags fill missing fields",
			input:    track.Track{Source: tagged},
			expected: track.Track{Title: "Blue Hour", Artist: "Nightjar", Source: tagged},
		},
		{
			name:     "configured title wins",
			input:    track.Track{Title: "Custom", Source: tagged},
			expected: track.Track{Title: "Custom", Artist: "Nightjar", Source: tagged},
		},
		{
			name:     "complete track untouched",
			input:    track.Track{Title: "A", Artist: "B", Source: "missing.mp3", Color: "#fff"},
			expected: track.Track{Title: "A", Artist: "B", Source: "missing.mp3", Color: "#fff"},
		},
		{
			name:     "missing file falls back to file name",
			input:    track.Track{Source: "music/Late Train.flac"},
			expected: track.Track{Title: "Late Train", Source: "music/Late Train.flac"},
		},
		{
			name:     "remote source is not opened",
			input:    track.Track{Source: "https://example.com/stream.mp3"},
			expected: track.Track{Title: "stream", Source: "https://example.com/stream.mp3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Enrich(tt.input))
		})
	}
}

func TestEnrichAll(t *testing.T) {
	input := []track.Track{{Source: "a.mp3"}, {Title: "B", Source: "b.mp3"}}

	result := EnrichAll(input)

	require.Len(t, result, 2)
	assert.Equal(t, "a", result[0].Title)
	assert.Equal(t, "B", result[1].Title)
	assert.Empty(t, input[0].Title, "input slice is not modified")
}
