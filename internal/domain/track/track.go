// Package track provides the Track domain entity.
package track

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Track represents one playable audio item.
// A Track is treated as immutable once it is part of a playlist.
type Track struct {
	Title  string // Display title
	Artist string // Artist name (optional)
	Source string // Source locator (local file path)
	Image  string // Cover image locator (optional)
	Color  string // Display colour, e.g. "#1db954" (optional)
}

// Label returns the display label: "Artist - Title", or just the title
// when no artist is known.
func (t Track) Label() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// IsRemote reports whether the source locator points to a network resource.
func (t Track) IsRemote() bool {
	u, err := url.Parse(t.Source)
	if err != nil {
		return false
	}
	// Windows drive letters parse as a one-letter scheme
	return len(u.Scheme) > 1 && u.Host != ""
}

// Extension returns the lower-cased file extension of the source, including the dot.
func (t Track) Extension() string {
	return strings.ToLower(filepath.Ext(t.Source))
}

// FallbackTitle derives a title from the source file name.
func (t Track) FallbackTitle() string {
	base := filepath.Base(t.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
