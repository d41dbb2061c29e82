package detect

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"playtrack/internal/track"
)

// maxSnapDistancePx is how far a click may be from a detection's center
// and still snap to it.
const maxSnapDistancePx = 150.0

// Detection is one person found in a frame.
type Detection struct {
	Box image.Rectangle `json:"box"`
}

// Detector finds people in single frames so a rough click can snap to a
// proper bounding box instead of a hand-drawn one.
type Detector struct {
	hog gocv.HOGDescriptor
}

func NewDetector() (*Detector, error) {
	hog := gocv.NewHOGDescriptor()
	if err := hog.SetSVMDetector(gocv.HOGDefaultPeopleDetector()); err != nil {
		_ = hog.Close()
		return nil, fmt.Errorf("load people detector: %w", err)
	}
	return &Detector{hog: hog}, nil
}

func (d *Detector) Close() error {
	return d.hog.Close()
}

// People detects person-shaped regions in the frame.
func (d *Detector) People(frame gocv.Mat) []Detection {
	rects := d.hog.DetectMultiScaleWithParams(frame, 0,
		image.Pt(8, 8), image.Pt(16, 16), 1.05, 2, false)
	out := make([]Detection, 0, len(rects))
	for _, r := range rects {
		out = append(out, Detection{Box: r})
	}
	return out
}

// SnapToClick picks the detection the user most likely meant: the
// smallest box containing the click, otherwise the nearest box center
// within maxSnapDistancePx.
func SnapToClick(dets []Detection, click image.Point) (Detection, bool) {
	best := -1
	bestArea := 0
	for i, d := range dets {
		if !click.In(d.Box) {
			continue
		}
		area := d.Box.Dx() * d.Box.Dy()
		if best < 0 || area < bestArea {
			best, bestArea = i, area
		}
	}
	if best >= 0 {
		return dets[best], true
	}

	bestDist := math.MaxFloat64
	for i, d := range dets {
		cx := float64(d.Box.Min.X) + float64(d.Box.Dx())/2
		cy := float64(d.Box.Min.Y) + float64(d.Box.Dy())/2
		if dist := math.Hypot(cx-float64(click.X), cy-float64(click.Y)); dist < bestDist {
			bestDist, best = dist, i
		}
	}
	if best >= 0 && bestDist <= maxSnapDistancePx {
		return dets[best], true
	}
	return Detection{}, false
}

// PadBox grows r by frac of its size on every side and clamps the
// result to the frame, giving the tracker context around the subject.
func PadBox(r image.Rectangle, frac float64, width, height int) image.Rectangle {
	padX := int(float64(r.Dx()) * frac)
	padY := int(float64(r.Dy()) * frac)
	padded := image.Rect(r.Min.X-padX, r.Min.Y-padY, r.Max.X+padX, r.Max.Y+padY)
	return track.Clamp(padded, width, height)
}
