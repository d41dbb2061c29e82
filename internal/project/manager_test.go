package project

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playtrack/internal/render"
	"playtrack/internal/video"
)

func addTestTarget(t *testing.T, p *Project) *Target {
	t.Helper()
	tgt, err := p.AddTarget("subject", render.StyleArrow, 0, image.Rect(10, 10, 60, 110), image.Rectangle{})
	require.NoError(t, err)
	return tgt
}

func stubProbe(meta video.Metadata) ProbeFunc {
	return func(path string) (*video.Metadata, error) {
		m := meta
		return &m, nil
	}
}

func shortClip() video.Metadata {
	return video.Metadata{Width: 1280, Height: 720, FPS: 30, FrameCount: 300, Duration: 10}
}

func TestManagerAdd(t *testing.T) {
	m := NewManager(stubProbe(shortClip()))

	p, err := m.Add("/videos/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, 300, p.Meta.FrameCount)
	assert.Equal(t, 1, m.Len())
}

func TestManagerRejectsUnsupportedExtension(t *testing.T) {
	m := NewManager(stubProbe(shortClip()))
	_, err := m.Add("/videos/a.avi")
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = m.Add("/videos/notes.txt")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestManagerRejectsDuplicate(t *testing.T) {
	m := NewManager(stubProbe(shortClip()))
	_, err := m.Add("/videos/a.mp4")
	require.NoError(t, err)
	_, err = m.Add("/videos/a.mp4")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, m.Len())
}

func TestManagerRejectsLongClip(t *testing.T) {
	long := shortClip()
	long.FrameCount = 3000
	long.Duration = 100
	m := NewManager(stubProbe(long))

	_, err := m.Add("/videos/long.mp4")
	assert.ErrorIs(t, err, ErrTooLong)

	// Raising the cap admits the same clip.
	m.MaxDurationSeconds = 120
	_, err = m.Add("/videos/long.mp4")
	assert.NoError(t, err)
}

func TestManagerProbeFailure(t *testing.T) {
	m := NewManager(func(path string) (*video.Metadata, error) {
		return nil, errors.New("corrupt header")
	})
	_, err := m.Add("/videos/broken.mp4")
	assert.Error(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestManagerRemoveAdjustsCurrent(t *testing.T) {
	m := NewManager(stubProbe(shortClip()))
	for _, path := range []string{"/v/a.mp4", "/v/b.mp4", "/v/c.mp4"} {
		_, err := m.Add(path)
		require.NoError(t, err)
	}
	require.True(t, m.SetCurrent(2))

	assert.True(t, m.Remove(0))
	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "/v/c.mp4", cur.VideoPath)

	assert.True(t, m.Remove(1))
	_, ok = m.Current()
	assert.False(t, ok)
}

func TestManagerByID(t *testing.T) {
	m := NewManager(stubProbe(shortClip()))
	p, err := m.Add("/v/a.mp4")
	require.NoError(t, err)

	got, ok := m.ByID(p.ID)
	require.True(t, ok)
	assert.Same(t, p, got)

	_, ok = m.ByID("prj_missing")
	assert.False(t, ok)

	assert.True(t, m.RemoveByID(p.ID))
	assert.Equal(t, 0, m.Len())
}

func TestExportQueueAndSummary(t *testing.T) {
	m := NewManager(stubProbe(shortClip()))

	marked, err := m.Add("/v/marked.mp4")
	require.NoError(t, err)
	addTestTarget(t, marked)

	pending, err := m.Add("/v/pending.mp4")
	require.NoError(t, err)

	exported, err := m.Add("/v/exported.mp4")
	require.NoError(t, err)
	addTestTarget(t, exported)
	exported.Status = StatusExported

	queue := m.ExportQueue()
	require.Len(t, queue, 1)
	assert.Same(t, marked, queue[0])

	sum := m.Summary()
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 1, sum.Pending)
	assert.Equal(t, 1, sum.Marked)
	assert.Equal(t, 1, sum.Exported)
	assert.Equal(t, 1, sum.ReadyForExport)
	_ = pending
}

func TestSkipUnmarked(t *testing.T) {
	m := NewManager(stubProbe(shortClip()))

	marked, err := m.Add("/v/marked.mp4")
	require.NoError(t, err)
	addTestTarget(t, marked)

	pending, err := m.Add("/v/pending.mp4")
	require.NoError(t, err)

	assert.Equal(t, 1, m.SkipUnmarked())
	assert.Equal(t, StatusSkipped, pending.Status)
	assert.Equal(t, "no targets marked", pending.LastError)
	assert.Equal(t, StatusMarked, marked.Status)

	// Repeat runs find nothing new to skip.
	assert.Equal(t, 0, m.SkipUnmarked())
}
