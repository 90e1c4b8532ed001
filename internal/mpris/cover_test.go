package mpris

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("fake"), 0o600))
}

func TestFindAlbumArt(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.jpg")
	touch(t, coverPath)

	assert.Equal(t, coverPath, FindAlbumArt(filepath.Join(dir, "track.mp3")))
}

func TestFindAlbumArt_NotFound(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindAlbumArt(filepath.Join(dir, "track.mp3")))
	assert.Empty(t, FindAlbumArt(filepath.Join(dir, "missing", "track.mp3")))
}

func TestFindAlbumArt_Priority(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "folder.jpg"))
	coverPath := filepath.Join(dir, "cover.jpg")
	touch(t, coverPath)

	assert.Equal(t, coverPath, FindAlbumArt(filepath.Join(dir, "track.mp3")))
}

func TestFindAlbumArt_IgnoresCase(t *testing.T) {
	dir := t.TempDir()
	artPath := filepath.Join(dir, "Folder.JPG")
	touch(t, artPath)

	assert.Equal(t, artPath, FindAlbumArt(filepath.Join(dir, "track.flac")))
}
