//go:build !windows

package stderr

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStartStop_ForwardsLinesToLog(t *testing.T) {
	var out syncBuffer
	log := zerolog.New(&out)

	require.NoError(t, Start(log))
	require.NoError(t, Start(log), "second Start is a no-op")

	fmt.Fprintln(os.Stderr, "ALSA lib pcm.c: underrun occurred")
	fmt.Fprintln(os.Stderr, "   ")
	Stop()
	Stop()

	got := out.String()
	assert.Contains(t, got, "underrun occurred")
	assert.Contains(t, got, `"source":"stderr"`)
	assert.Contains(t, got, `"level":"warn"`)
	assert.Equal(t, 1, bytes.Count([]byte(got), []byte("\n")), "blank lines are skipped")
}

func TestStop_WithoutStart(t *testing.T) {
	assert.NotPanics(t, Stop)
}
