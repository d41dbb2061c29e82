package track

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIoU(t *testing.T) {
	a := image.Rect(0, 0, 100, 100)
	assert.InDelta(t, 1.0, IoU(a, a), 1e-9)
	assert.InDelta(t, 0.0, IoU(a, image.Rect(200, 200, 300, 300)), 1e-9)

	// Half overlap: intersection 5000, union 15000.
	b := image.Rect(50, 0, 150, 100)
	assert.InDelta(t, 1.0/3.0, IoU(a, b), 1e-9)
}

func TestClamp(t *testing.T) {
	bounds := func(r image.Rectangle) image.Rectangle { return Clamp(r, 640, 480) }

	inside := image.Rect(10, 10, 100, 100)
	assert.Equal(t, inside, bounds(inside))

	// Overhanging boxes are translated back in, preserving size.
	left := bounds(image.Rect(-20, 10, 30, 60))
	assert.Equal(t, image.Rect(0, 10, 50, 60), left)

	bottom := bounds(image.Rect(10, 460, 60, 510))
	assert.Equal(t, image.Rect(10, 430, 60, 480), bottom)

	// A box larger than the frame is cut down to it.
	huge := bounds(image.Rect(-100, -100, 1000, 1000))
	assert.Equal(t, image.Rect(0, 0, 640, 480), huge)
}

func TestCenterDistance(t *testing.T) {
	a := image.Rect(0, 0, 10, 10)
	assert.InDelta(t, 0, CenterDistance(a, a), 1e-9)
	assert.InDelta(t, 5, CenterDistance(a, a.Add(image.Pt(3, 4))), 1e-9)
}

func TestSizeChange(t *testing.T) {
	a := image.Rect(0, 0, 100, 100)
	assert.InDelta(t, 0, SizeChange(a, a), 1e-9)

	halved := image.Rect(0, 0, 100, 50)
	assert.InDelta(t, 0.5, SizeChange(a, halved), 1e-9)

	doubled := image.Rect(0, 0, 200, 100)
	assert.InDelta(t, 1.0, SizeChange(a, doubled), 1e-9)

	assert.InDelta(t, 0, SizeChange(image.Rectangle{}, a), 1e-9)
}

func TestEMA(t *testing.T) {
	prev := image.Rect(0, 0, 100, 100)
	cur := image.Rect(100, 0, 200, 100)

	// Full weight on the new box.
	assert.Equal(t, cur, EMA(prev, cur, 1.0))

	half := EMA(prev, cur, 0.5)
	assert.Equal(t, 50, half.Min.X)
	assert.Equal(t, 100, half.Dx())
	assert.Equal(t, 100, half.Dy())
}
