package track

import (
	"image"
	"math"
)

// IoU computes intersection-over-union of two rectangles.
func IoU(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	interArea := float64(inter.Dx() * inter.Dy())
	union := float64(a.Dx()*a.Dy()+b.Dx()*b.Dy()) - interArea
	if union <= 0 {
		return 0
	}
	return interArea / union
}

// Clamp constrains r to the frame bounds, preserving size where possible.
func Clamp(r image.Rectangle, width, height int) image.Rectangle {
	if r.Min.X < 0 {
		r = r.Add(image.Pt(-r.Min.X, 0))
	}
	if r.Min.Y < 0 {
		r = r.Add(image.Pt(0, -r.Min.Y))
	}
	if r.Max.X > width {
		r = r.Add(image.Pt(width-r.Max.X, 0))
	}
	if r.Max.Y > height {
		r = r.Add(image.Pt(0, height-r.Max.Y))
	}
	return r.Intersect(image.Rect(0, 0, width, height))
}

func center(r image.Rectangle) (float64, float64) {
	return float64(r.Min.X) + float64(r.Dx())/2, float64(r.Min.Y) + float64(r.Dy())/2
}

// CenterDistance returns the distance between rectangle centers in pixels.
func CenterDistance(a, b image.Rectangle) float64 {
	ax, ay := center(a)
	bx, by := center(b)
	return math.Hypot(ax-bx, ay-by)
}

// SizeChange returns the relative area change from prev to cur.
func SizeChange(prev, cur image.Rectangle) float64 {
	prevArea := float64(prev.Dx() * prev.Dy())
	if prevArea <= 0 {
		return 0
	}
	curArea := float64(cur.Dx() * cur.Dy())
	return math.Abs(curArea-prevArea) / prevArea
}

// EMA blends cur toward prev with factor alpha (higher alpha follows the
// new position more closely).
func EMA(prev, cur image.Rectangle, alpha float64) image.Rectangle {
	blend := func(a, b int) int {
		return int(alpha*float64(b) + (1-alpha)*float64(a))
	}
	minX := blend(prev.Min.X, cur.Min.X)
	minY := blend(prev.Min.Y, cur.Min.Y)
	return image.Rect(minX, minY, minX+blend(prev.Dx(), cur.Dx()), minY+blend(prev.Dy(), cur.Dy()))
}
