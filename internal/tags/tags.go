// Package tags reads the track metadata shown in the player header.
package tags

import (
	"path/filepath"
	"strings"
)

// Tag holds the metadata of one media file.
type Tag struct {
	Path   string
	Title  string
	Artist string
	Album  string
	Size   int64 // file size in bytes
}

// FallbackTitle derives a title from the file name without its extension.
func FallbackTitle(path string) string {
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

// Line returns "Artist - Title", or just the title when the artist is unknown.
func (t *Tag) Line() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}
