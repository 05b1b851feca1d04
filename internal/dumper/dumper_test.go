package dumper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumperWritesQueuedFrames(t *testing.T) {
	base := filepath.Join(t.TempDir(), "packets")
	d, err := New(base)
	require.NoError(t, err)

	frameIn := []byte{0x55, 0, 2, 0, 3, 1}
	frameOut := []byte{0x55, 1, 1, 0, 1}
	wantIn := append([]byte(nil), frameIn...)
	wantOut := append([]byte(nil), frameOut...)

	d.Inbound("conn-a", 0, 3, frameIn)
	d.Outbound("conn-a", 1, 1, frameOut)

	// the caller's buffer is pool-backed; mutating it after the call must
	// not change what lands on disk
	frameIn[0] = 0xFF
	frameOut[0] = 0xFF

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Run flushes the queue on its way out
	require.ErrorIs(t, d.Run(ctx), context.Canceled)

	got, err := os.ReadFile(filepath.Join(base, "in", "conn-a_00000000-3.bin"))
	require.NoError(t, err)
	assert.Equal(t, wantIn, got)

	got, err = os.ReadFile(filepath.Join(base, "out", "conn-a_00000001-1.bin"))
	require.NoError(t, err)
	assert.Equal(t, wantOut, got)
}

func TestDumperClearsPreviousRuns(t *testing.T) {
	base := filepath.Join(t.TempDir(), "packets")
	stale := filepath.Join(base, "in", "stale.bin")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte{1}, 0o644))

	_, err := New(base)
	require.NoError(t, err)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestDumperDropsOnQueueOverflow(t *testing.T) {
	d, err := New(filepath.Join(t.TempDir(), "packets"))
	require.NoError(t, err)

	frame := []byte{0x55, 0, 1, 0, 1}
	for i := 0; i < queueSize+10; i++ {
		d.Inbound("conn", uint64(i), 1, frame)
	}
	assert.Equal(t, uint64(10), d.Dropped())
}
