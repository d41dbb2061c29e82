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

func TestAddTargetMovesToMarked(t *testing.T) {
	p := New("/videos/clip.mp4")
	assert.Equal(t, StatusPending, p.Status)

	tgt, err := p.AddTarget("player", render.StyleArrow, 0, image.Rect(10, 10, 60, 110), image.Rectangle{})
	require.NoError(t, err)
	assert.Equal(t, StatusMarked, p.Status)
	assert.Equal(t, 1, tgt.ID)
	// Original defaults to the marked box when no padding was applied.
	assert.Equal(t, tgt.Box, tgt.OriginalBox)
}

func TestAddTargetValidation(t *testing.T) {
	p := New("/videos/clip.mp4")

	_, err := p.AddTarget("x", render.Style("sparkles"), 0, image.Rect(0, 0, 10, 10), image.Rectangle{})
	assert.Error(t, err)

	_, err = p.AddTarget("x", render.StyleArrow, 0, image.Rect(10, 10, 10, 10), image.Rectangle{})
	assert.Error(t, err)

	_, err = p.AddTarget("x", render.StyleArrow, -3, image.Rect(0, 0, 10, 10), image.Rectangle{})
	assert.Error(t, err)

	assert.Equal(t, StatusPending, p.Status)
}

func TestPaddingOffsetReversal(t *testing.T) {
	p := New("/videos/clip.mp4")
	padded := image.Rect(90, 90, 170, 220)
	original := image.Rect(100, 100, 160, 210)
	tgt, err := p.AddTarget("runner", render.StyleEllipse, 0, padded, original)
	require.NoError(t, err)

	// A tracked box translated 50px right maps to the original extent
	// translated the same amount.
	moved := padded.Add(image.Pt(50, 0))
	got := tgt.OriginalFromPadded(moved)
	assert.Equal(t, original.Add(image.Pt(50, 0)), got)
	assert.Equal(t, original.Dx(), got.Dx())
	assert.Equal(t, original.Dy(), got.Dy())
}

func TestAddKeyFrameInvalidatesResults(t *testing.T) {
	p := New("/videos/clip.mp4")
	tgt, err := p.AddTarget("player", render.StyleArrow, 0, image.Rect(0, 0, 50, 100), image.Rectangle{})
	require.NoError(t, err)

	for f := 0; f < 100; f++ {
		p.Results.Set(tgt.ID, f, Sample{Box: image.Rect(f, 0, f+50, 100), OK: true})
	}
	p.Status = StatusTracked

	require.NoError(t, p.AddKeyFrame(tgt.ID, 40, image.Rect(45, 0, 95, 100), image.Rectangle{}))

	assert.Equal(t, StatusMarked, p.Status)
	_, ok := p.Results.At(tgt.ID, 39)
	assert.True(t, ok, "samples before the correction survive")
	_, ok = p.Results.At(tgt.ID, 40)
	assert.False(t, ok, "samples from the correction on are dropped")
	assert.Equal(t, 40, p.ResumeStart(0))
}

func TestResumeStartUsesEarliestCorrection(t *testing.T) {
	p := New("/videos/clip.mp4")
	a, _ := p.AddTarget("a", render.StyleArrow, 0, image.Rect(0, 0, 10, 10), image.Rectangle{})
	b, _ := p.AddTarget("b", render.StyleArrow, 0, image.Rect(20, 20, 30, 30), image.Rectangle{})

	require.NoError(t, p.AddKeyFrame(a.ID, 70, image.Rect(5, 5, 15, 15), image.Rectangle{}))
	require.NoError(t, p.AddKeyFrame(b.ID, 30, image.Rect(25, 25, 35, 35), image.Rectangle{}))

	assert.Equal(t, 30, p.ResumeStart(0))
	assert.Equal(t, 50, p.ResumeStart(50), "explicit later start wins")

	p.ClearRecompute()
	assert.Equal(t, 0, p.ResumeStart(0))
}

func TestEarliestKeyFrameBecomesInitial(t *testing.T) {
	p := New("/videos/clip.mp4")
	tgt, _ := p.AddTarget("late", render.StyleArrow, 50, image.Rect(0, 0, 10, 10), image.Rectangle{})

	earlier := image.Rect(100, 100, 110, 110)
	require.NoError(t, p.AddKeyFrame(tgt.ID, 10, earlier, image.Rectangle{}))
	assert.Equal(t, 10, tgt.InitialFrame)
	assert.Equal(t, earlier, tgt.Box)
}

func TestNearestKeyFrame(t *testing.T) {
	p := New("/videos/clip.mp4")
	tgt, _ := p.AddTarget("x", render.StyleArrow, 0, image.Rect(0, 0, 10, 10), image.Rectangle{})
	require.NoError(t, p.AddKeyFrame(tgt.ID, 100, image.Rect(1, 1, 11, 11), image.Rectangle{}))

	frame, _, ok := tgt.NearestKeyFrame(30)
	require.True(t, ok)
	assert.Equal(t, 0, frame)

	frame, _, ok = tgt.NearestKeyFrame(80)
	require.True(t, ok)
	assert.Equal(t, 100, frame)
}

func TestRangeAppliesTrim(t *testing.T) {
	p := New("/videos/clip.mp4")
	p.Meta = &video.Metadata{FrameCount: 300}

	start, end := p.Range()
	assert.Equal(t, 0, start)
	assert.Equal(t, 299, end)

	p.TrimStart = 50
	p.TrimEnd = 200
	start, end = p.Range()
	assert.Equal(t, 50, start)
	assert.Equal(t, 200, end)

	// Trim end past the clip is capped by the frame count.
	p.TrimEnd = 500
	_, end = p.Range()
	assert.Equal(t, 299, end)
}

func TestResetTracking(t *testing.T) {
	p := New("/videos/clip.mp4")
	tgt, _ := p.AddTarget("x", render.StyleArrow, 0, image.Rect(0, 0, 10, 10), image.Rectangle{})
	p.Results.Set(tgt.ID, 5, Sample{OK: true})
	p.Status = StatusTracked

	p.ResetTracking()
	assert.Equal(t, StatusMarked, p.Status)
	assert.False(t, p.Results.HasData())
}

func TestFailRecordsError(t *testing.T) {
	p := New("/videos/clip.mp4")
	p.Fail(errors.New("decoder exploded"))
	assert.Equal(t, StatusFailed, p.Status)
	assert.Equal(t, "decoder exploded", p.LastError)
}
