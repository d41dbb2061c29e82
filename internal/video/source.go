package video

import (
	"fmt"
	"log"

	"gocv.io/x/gocv"
)

const (
	minValidFPS        = 1.0
	maxValidFPS        = 240.0
	defaultFPS         = 30.0
	maxCountableFrames = 100000
)

// Metadata holds the probed properties of a video file.
type Metadata struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FPS        float64 `json:"fps"`
	FrameCount int     `json:"frame_count"`
	Duration   float64 `json:"duration_seconds"`
}

// capture is the subset of gocv.VideoCapture the source relies on,
// kept narrow so decoder quirks can be simulated in tests.
type capture interface {
	Get(gocv.VideoCaptureProperties) float64
	Set(gocv.VideoCaptureProperties, float64)
	Read(*gocv.Mat) bool
	IsOpened() bool
	Close() error
}

var openCapture = func(path string) (capture, error) {
	return gocv.VideoCaptureFile(path)
}

func validFPS(fps float64) bool {
	return fps >= minValidFPS && fps <= maxValidFPS
}

func validFrameCount(n int) bool {
	return n >= 1 && n <= maxCountableFrames
}

// Probe reads metadata from a video without keeping the capture open.
// Decoder-reported values are sanity checked: an implausible frame rate
// falls back to 30 fps and an implausible frame count triggers a manual
// sequential count.
func Probe(path string) (*Metadata, error) {
	c, err := openCapture(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	defer c.Close()

	meta := &Metadata{
		Width:  int(c.Get(gocv.VideoCaptureFrameWidth)),
		Height: int(c.Get(gocv.VideoCaptureFrameHeight)),
		FPS:    c.Get(gocv.VideoCaptureFPS),
	}
	if !validFPS(meta.FPS) {
		meta.FPS = defaultFPS
	}

	meta.FrameCount = int(c.Get(gocv.VideoCaptureFrameCount))
	if !validFrameCount(meta.FrameCount) {
		log.Printf("unreliable frame count %d for %s, counting manually", meta.FrameCount, path)
		meta.FrameCount = countFrames(c)
	}

	if meta.FPS > 0 {
		meta.Duration = float64(meta.FrameCount) / meta.FPS
	}
	return meta, nil
}

func countFrames(capture capture) int {
	capture.Set(gocv.VideoCapturePosFrames, 0)
	frame := gocv.NewMat()
	defer frame.Close()

	count := 0
	for capture.Read(&frame) && !frame.Empty() {
		count++
		if count > maxCountableFrames {
			break
		}
	}
	capture.Set(gocv.VideoCapturePosFrames, 0)
	return count
}

// Source wraps a video capture for sequential reads and random access.
type Source struct {
	path    string
	meta    Metadata
	capture capture
	pos     int
}

// Open probes path and opens a capture positioned at frame zero.
func Open(path string) (*Source, error) {
	meta, err := Probe(path)
	if err != nil {
		return nil, err
	}
	c, err := openCapture(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	return &Source{path: path, meta: *meta, capture: c}, nil
}

// Metadata returns the probed properties of the source.
func (s *Source) Metadata() Metadata {
	return s.meta
}

// Pos returns the index of the next frame Next will return.
func (s *Source) Pos() int {
	return s.pos
}

// Next reads the next frame sequentially into dst.
func (s *Source) Next(dst *gocv.Mat) bool {
	if s.capture == nil {
		return false
	}
	if !s.capture.Read(dst) || dst.Empty() {
		return false
	}
	s.pos++
	return true
}

// Seek positions the capture at idx so the next read returns that frame.
// When the decoder silently lands elsewhere, Seek falls back to reading
// sequentially from frame zero.
func (s *Source) Seek(idx int) error {
	if s.capture == nil {
		return fmt.Errorf("source is closed")
	}
	if idx < 0 || (s.meta.FrameCount > 0 && idx >= s.meta.FrameCount) {
		return fmt.Errorf("frame %d out of range [0,%d)", idx, s.meta.FrameCount)
	}

	s.capture.Set(gocv.VideoCapturePosFrames, float64(idx))
	if int(s.capture.Get(gocv.VideoCapturePosFrames)) == idx {
		s.pos = idx
		return nil
	}

	log.Printf("seek to frame %d failed, reading sequentially from start", idx)
	s.capture.Set(gocv.VideoCapturePosFrames, 0)
	frame := gocv.NewMat()
	defer frame.Close()
	for i := 0; i < idx; i++ {
		if !s.capture.Read(&frame) || frame.Empty() {
			return fmt.Errorf("sequential read stopped at frame %d while seeking to %d", i, idx)
		}
	}
	s.pos = idx
	return nil
}

// FrameAt retrieves a single frame by index into dst. Unreliable decoders
// are handled with three escalating strategies: a direct seek on the open
// capture, a fresh capture with a verified seek, and finally a sequential
// read from frame zero.
func (s *Source) FrameAt(idx int, dst *gocv.Mat) error {
	if idx < 0 || (s.meta.FrameCount > 0 && idx >= s.meta.FrameCount) {
		return fmt.Errorf("frame %d out of range [0,%d)", idx, s.meta.FrameCount)
	}

	// Strategy 1: seek on the already open capture, resetting first.
	if s.capture != nil && s.capture.IsOpened() {
		s.capture.Set(gocv.VideoCapturePosFrames, 0)
		s.capture.Set(gocv.VideoCapturePosFrames, float64(idx))
		if s.capture.Read(dst) && !dst.Empty() {
			s.pos = idx + 1
			return nil
		}
		// The failed read left the capture at an arbitrary position;
		// rewind it so later sequential reads stay in sync with pos.
		s.capture.Set(gocv.VideoCapturePosFrames, 0)
		s.pos = 0
	}

	// Strategy 2: open a fresh capture and verify the seek landed.
	temp, err := openCapture(s.path)
	if err != nil {
		return fmt.Errorf("reopen video %s: %w", s.path, err)
	}
	defer temp.Close()

	temp.Set(gocv.VideoCapturePosFrames, float64(idx))
	if int(temp.Get(gocv.VideoCapturePosFrames)) == idx {
		if temp.Read(dst) && !dst.Empty() {
			return nil
		}
	}

	// Strategy 3: sequential read from the start, for codecs with
	// broken seeking.
	temp.Set(gocv.VideoCapturePosFrames, 0)
	for i := 0; i <= idx; i++ {
		if !temp.Read(dst) || dst.Empty() {
			return fmt.Errorf("sequential read stopped at frame %d of %d", i, idx)
		}
	}
	return nil
}

// FirstFrame retrieves frame zero.
func (s *Source) FirstFrame(dst *gocv.Mat) error {
	return s.FrameAt(0, dst)
}

// Close releases the underlying capture.
func (s *Source) Close() error {
	if s.capture == nil {
		return nil
	}
	err := s.capture.Close()
	s.capture = nil
	return err
}
