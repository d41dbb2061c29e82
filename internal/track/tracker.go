package track

import (
	"image"
	"log"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// Kind selects the underlying OpenCV tracker implementation.
type Kind string

const (
	// KindCSRT is accurate but slower; the default.
	KindCSRT Kind = "csrt"

	// KindKCF is faster and less robust to scale changes.
	KindKCF Kind = "kcf"
)

// Tracker wraps a single-object OpenCV tracker with input validation.
// The zero value is not usable; construct with New.
type Tracker struct {
	kind        Kind
	tracker     gocv.Tracker
	box         image.Rectangle
	initialized bool
}

// New creates a tracker of the given kind. Unknown kinds fall back to
// CSRT.
func New(kind Kind) *Tracker {
	t := &Tracker{kind: kind}
	switch kind {
	case KindKCF:
		t.tracker = contrib.NewTrackerKCF()
	default:
		t.kind = KindCSRT
		t.tracker = contrib.NewTrackerCSRT()
	}
	return t
}

// Init starts (or restarts) tracking at box. Boxes partially outside the
// frame are clamped first.
func (t *Tracker) Init(frame gocv.Mat, box image.Rectangle) bool {
	if frame.Empty() || box.Dx() <= 0 || box.Dy() <= 0 {
		return false
	}
	clamped := Clamp(box, frame.Cols(), frame.Rows())
	if clamped.Dx() <= 0 || clamped.Dy() <= 0 {
		return false
	}
	if clamped != box {
		log.Printf("clamped tracker box %v to frame bounds: %v", box, clamped)
	}
	if !t.tracker.Init(frame, clamped) {
		return false
	}
	t.box = clamped
	t.initialized = true
	return true
}

// Update advances the tracker by one frame. The second return is false
// when tracking is lost.
func (t *Tracker) Update(frame gocv.Mat) (image.Rectangle, bool) {
	if !t.initialized {
		return image.Rectangle{}, false
	}
	box, ok := t.tracker.Update(frame)
	if !ok || box.Dx() <= 0 || box.Dy() <= 0 {
		return image.Rectangle{}, false
	}
	t.box = Clamp(box, frame.Cols(), frame.Rows())
	return t.box, true
}

// Initialized reports whether Init has succeeded at least once.
func (t *Tracker) Initialized() bool {
	return t.initialized
}

// Box returns the most recent tracked rectangle.
func (t *Tracker) Box() image.Rectangle {
	return t.box
}

// Close releases the underlying OpenCV tracker.
func (t *Tracker) Close() error {
	t.initialized = false
	if t.tracker == nil {
		return nil
	}
	err := t.tracker.Close()
	t.tracker = nil
	return err
}
