package preview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountFrames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"frame_00001.jpg", "frame_00002.jpg", "notes.txt", "frame_bad.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "frame_dir.jpg"), 0o755))

	n, err := CountFrames(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCountFramesMissingDir(t *testing.T) {
	_, err := CountFrames(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
