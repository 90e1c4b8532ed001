package engine

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/music/a.mp3", true},
		{"/music/a.MP3", true},
		{"b.flac", true},
		{"c.wav", true},
		{"d.ogg", true},
		{"d.oga", true},
		{"e.m4a", false},
		{"notes.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAudioFile(tt.path))
		})
	}
}

func TestSkipID3v2_WithTag(t *testing.T) {
	// Size 0x0000_0105 syncsafe = 1<<7 | 5 = 133 bytes of tag body.
	header := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 1, 5}
	body := bytes.Repeat([]byte{0}, 133)
	payload := []byte("fLaC")
	r := bytes.NewReader(append(append(header, body...), payload...))

	require.NoError(t, skipID3v2(r))

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, rest)
}

func TestSkipID3v2_WithoutTag(t *testing.T) {
	data := []byte("fLaC and more bytes")
	r := bytes.NewReader(data)

	require.NoError(t, skipID3v2(r))

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, rest)
}

func TestSkipID3v2_ShortFile(t *testing.T) {
	r := bytes.NewReader([]byte("abc"))

	require.NoError(t, skipID3v2(r))

	pos, err := r.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)
}

func TestDecodeFile_Unsupported(t *testing.T) {
	_, _, err := decodeFile("/tmp/song.m4a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestDecodeFile_Missing(t *testing.T) {
	_, _, err := decodeFile(filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecodeFile_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file at all"), 0o644))

	_, _, err := decodeFile(path)
	assert.Error(t, err)
}
