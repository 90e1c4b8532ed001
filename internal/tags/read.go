package tags

import (
	"os"
	"strings"

	"emperror.dev/errors"
	"github.com/dhowden/tag"
)

// Read reads tag metadata from a media file. Files without readable tags
// still produce a Tag titled after the file name; only I/O errors fail.
func Read(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat")
	}

	t := &Tag{Path: path, Size: info.Size()}

	// dhowden/tag fails on untagged files; that is not an error here.
	if m, err := tag.ReadFrom(f); err == nil {
		t.Title = strings.TrimSpace(m.Title())
		t.Artist = strings.TrimSpace(m.Artist())
		if t.Artist == "" {
			t.Artist = strings.TrimSpace(m.AlbumArtist())
		}
		t.Album = strings.TrimSpace(m.Album())
	}

	if t.Title == "" {
		t.Title = FallbackTitle(path)
	}
	return t, nil
}
