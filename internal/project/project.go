package project

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"playtrack/internal/render"
	"playtrack/internal/video"
)

// Target is one marked subject to follow through a video. Box is the
// padded rectangle handed to the tracker; OriginalBox is the rectangle
// as marked, used for accurate marker placement. KeyFrames hold user
// corrections: frames where the target's position is known exactly and
// the tracker is re-initialized.
type Target struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Style        render.Style `json:"style"`
	InitialFrame int          `json:"initial_frame"`
	Box          image.Rectangle
	OriginalBox  image.Rectangle

	KeyFrames         map[int]image.Rectangle
	OriginalKeyFrames map[int]image.Rectangle
}

func newTarget(id int, name string, style render.Style, frame int, box, original image.Rectangle) *Target {
	if original.Empty() {
		original = box
	}
	return &Target{
		ID:                id,
		Name:              name,
		Style:             style,
		InitialFrame:      frame,
		Box:               box,
		OriginalBox:       original,
		KeyFrames:         map[int]image.Rectangle{frame: box},
		OriginalKeyFrames: map[int]image.Rectangle{frame: original},
	}
}

// AddKeyFrame records a corrected position at frame. The earliest key
// frame becomes the target's initial frame.
func (t *Target) AddKeyFrame(frame int, box, original image.Rectangle) {
	if original.Empty() {
		original = box
	}
	t.KeyFrames[frame] = box
	t.OriginalKeyFrames[frame] = original
	if frame < t.InitialFrame {
		t.InitialFrame = frame
		t.Box = box
		t.OriginalBox = original
	}
}

// SortedKeyFrames returns the key frame indices in ascending order.
func (t *Target) SortedKeyFrames() []int {
	frames := make([]int, 0, len(t.KeyFrames))
	for f := range t.KeyFrames {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames
}

// NearestKeyFrame returns the key frame closest to frame by distance.
func (t *Target) NearestKeyFrame(frame int) (int, image.Rectangle, bool) {
	best := -1
	bestDist := int(^uint(0) >> 1)
	for f := range t.KeyFrames {
		dist := f - frame
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			bestDist = dist
			best = f
		}
	}
	if best < 0 {
		return 0, image.Rectangle{}, false
	}
	return best, t.KeyFrames[best], true
}

// PaddingOffset returns the translation and size delta between the
// padded tracking box and the original box at the initial frame.
func (t *Target) PaddingOffset() (dx, dy, dw, dh int) {
	dx = t.OriginalBox.Min.X - t.Box.Min.X
	dy = t.OriginalBox.Min.Y - t.Box.Min.Y
	dw = t.Box.Dx() - t.OriginalBox.Dx()
	dh = t.Box.Dy() - t.OriginalBox.Dy()
	return dx, dy, dw, dh
}

// OriginalFromPadded reverses the padding applied at mark time so a
// tracked padded box can be mapped back to the subject's true extent.
func (t *Target) OriginalFromPadded(box image.Rectangle) image.Rectangle {
	dx, dy, dw, dh := t.PaddingOffset()
	if dx == 0 && dy == 0 && dw == 0 && dh == 0 {
		return box
	}
	min := image.Pt(box.Min.X+dx, box.Min.Y+dy)
	return image.Rectangle{
		Min: min,
		Max: image.Pt(min.X+box.Dx()-dw, min.Y+box.Dy()-dh),
	}
}

// Sample is one tracked position of a target at a single frame.
type Sample struct {
	Box         image.Rectangle
	OriginalBox image.Rectangle
	OK          bool
	Confidence  float64
	KeyFrame    bool
}

// Results stores tracking samples per target per frame.
type Results map[int]map[int]Sample

func (r Results) Set(targetID, frame int, s Sample) {
	if r[targetID] == nil {
		r[targetID] = make(map[int]Sample)
	}
	r[targetID][frame] = s
}

// At returns the sample for a target at a frame.
func (r Results) At(targetID, frame int) (Sample, bool) {
	s, ok := r[targetID][frame]
	return s, ok
}

// InvalidateFrom removes a target's samples at and after frame.
func (r Results) InvalidateFrom(targetID, frame int) {
	for f := range r[targetID] {
		if f >= frame {
			delete(r[targetID], f)
		}
	}
}

// HasData reports whether at least one tracked sample exists.
func (r Results) HasData() bool {
	for _, frames := range r {
		if len(frames) > 0 {
			return true
		}
	}
	return false
}

// Project is one loaded video plus its marked targets, tracking results
// and lifecycle status.
type Project struct {
	ID         string          `json:"id"`
	VideoPath  string          `json:"video_path"`
	Meta       *video.Metadata `json:"metadata,omitempty"`
	Status     Status          `json:"status"`
	LastError  string          `json:"last_error,omitempty"`
	OutputPath string          `json:"output_path,omitempty"`

	// Trim range limits tracking to part of the video. Negative means
	// unset (track from the start / to the end).
	TrimStart int `json:"trim_start_frame"`
	TrimEnd   int `json:"trim_end_frame"`

	Targets []*Target `json:"targets"`
	Results Results   `json:"-"`

	nextTargetID  int
	recomputeFrom map[int]int
}

// New creates a pending project for a video path. Metadata is attached
// by the manager after probing.
func New(path string) *Project {
	return &Project{
		ID:            "prj_" + uuid.NewString(),
		VideoPath:     path,
		Status:        StatusPending,
		TrimStart:     -1,
		TrimEnd:       -1,
		Targets:       []*Target{},
		Results:       make(Results),
		nextTargetID:  1,
		recomputeFrom: make(map[int]int),
	}
}

// AddTarget marks a new subject and moves the project to marked.
func (p *Project) AddTarget(name string, style render.Style, frame int, box, original image.Rectangle) (*Target, error) {
	if !style.Valid() {
		return nil, fmt.Errorf("unknown marker style %q", style)
	}
	if box.Dx() <= 0 || box.Dy() <= 0 {
		return nil, fmt.Errorf("invalid box %v: width and height must be positive", box)
	}
	if frame < 0 {
		return nil, fmt.Errorf("invalid frame %d", frame)
	}

	t := newTarget(p.nextTargetID, name, style, frame, box, original)
	p.nextTargetID++
	p.Targets = append(p.Targets, t)
	if p.Status == StatusPending {
		p.Status = StatusMarked
	}
	return t, nil
}

// Target returns the target with the given id.
func (p *Project) Target(id int) (*Target, bool) {
	for _, t := range p.Targets {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// HasTargets reports whether any subject has been marked.
func (p *Project) HasTargets() bool {
	return len(p.Targets) > 0
}

// AddKeyFrame records a correction for a target and invalidates cached
// tracking results from that frame onward so the next run can resume
// incrementally.
func (p *Project) AddKeyFrame(targetID, frame int, box, original image.Rectangle) error {
	t, ok := p.Target(targetID)
	if !ok {
		return fmt.Errorf("target %d not found", targetID)
	}
	if box.Dx() <= 0 || box.Dy() <= 0 {
		return fmt.Errorf("invalid box %v: width and height must be positive", box)
	}
	t.AddKeyFrame(frame, box, original)

	if earliest, ok := p.recomputeFrom[targetID]; !ok || frame < earliest {
		p.recomputeFrom[targetID] = frame
	}
	p.Results.InvalidateFrom(targetID, frame)
	if p.Status == StatusTracked {
		p.Status = StatusMarked
	}
	return nil
}

// ResumeStart returns the earliest frame tracking must restart from,
// accounting for pending key-frame corrections.
func (p *Project) ResumeStart(requested int) int {
	if requested < 0 {
		requested = 0
	}
	if len(p.recomputeFrom) == 0 {
		return requested
	}
	earliest := -1
	for _, f := range p.recomputeFrom {
		if earliest < 0 || f < earliest {
			earliest = f
		}
	}
	if earliest > requested {
		return earliest
	}
	return requested
}

// ClearRecompute drops pending invalidation markers after a completed
// tracking run.
func (p *Project) ClearRecompute() {
	p.recomputeFrom = make(map[int]int)
}

// ResetTracking drops all tracking results and returns the project to
// marked (or pending when nothing is marked).
func (p *Project) ResetTracking() {
	p.Results = make(Results)
	p.recomputeFrom = make(map[int]int)
	if p.HasTargets() {
		p.Status = StatusMarked
	} else {
		p.Status = StatusPending
	}
}

// Fail records err and marks the project failed.
func (p *Project) Fail(err error) {
	p.Status = StatusFailed
	if err != nil {
		p.LastError = err.Error()
	}
}

// Range returns the effective frame range to track, applying the trim
// range against the probed frame count.
func (p *Project) Range() (start, end int) {
	start = 0
	if p.TrimStart >= 0 {
		start = p.TrimStart
	}
	end = -1
	if p.Meta != nil && p.Meta.FrameCount > 0 {
		end = p.Meta.FrameCount - 1
	}
	if p.TrimEnd >= 0 && (end < 0 || p.TrimEnd < end) {
		end = p.TrimEnd
	}
	return start, end
}

// DisplayName returns the file name with the target count, for listings.
func (p *Project) DisplayName() string {
	return fmt.Sprintf("%s (%d targets, %s)", filepath.Base(p.VideoPath), len(p.Targets), p.Status)
}
