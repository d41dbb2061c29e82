package detect

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapToClickPrefersContainingBox(t *testing.T) {
	dets := []Detection{
		{Box: image.Rect(0, 0, 400, 400)},
		{Box: image.Rect(100, 100, 200, 300)},
	}

	// Both contain the click; the tighter box wins.
	d, ok := SnapToClick(dets, image.Pt(150, 200))
	assert.True(t, ok)
	assert.Equal(t, image.Rect(100, 100, 200, 300), d.Box)
}

func TestSnapToClickFallsBackToNearest(t *testing.T) {
	dets := []Detection{
		{Box: image.Rect(100, 100, 160, 220)},
		{Box: image.Rect(500, 100, 560, 220)},
	}

	d, ok := SnapToClick(dets, image.Pt(200, 160))
	assert.True(t, ok)
	assert.Equal(t, image.Rect(100, 100, 160, 220), d.Box)

	// Too far from every detection.
	_, ok = SnapToClick(dets, image.Pt(900, 900))
	assert.False(t, ok)

	_, ok = SnapToClick(nil, image.Pt(0, 0))
	assert.False(t, ok)
}

func TestPadBoxClampsToFrame(t *testing.T) {
	padded := PadBox(image.Rect(100, 100, 200, 300), 0.1, 640, 360)
	assert.Equal(t, image.Rect(90, 80, 210, 320), padded)

	// Padding near the border must not leave the frame.
	edge := PadBox(image.Rect(0, 0, 100, 200), 0.2, 640, 360)
	assert.True(t, edge.In(image.Rect(0, 0, 640, 360)))
	assert.Equal(t, 0, edge.Min.X)
	assert.Equal(t, 0, edge.Min.Y)
}
