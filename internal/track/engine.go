package track

import (
	"context"
	"fmt"
	"image"
	"log"

	"gocv.io/x/gocv"

	"playtrack/internal/project"
	"playtrack/internal/video"
)

// Config tunes the multi-target tracking pass.
type Config struct {
	// Tracker selects the OpenCV tracker implementation.
	Tracker Kind

	// IoUMin flags a sample when overlap with the previous frame drops
	// below this value.
	IoUMin float64

	// ScaleChangeMax flags a sample when the box area changes by more
	// than this fraction between frames.
	ScaleChangeMax float64

	// CenterJumpPx flags a sample when the box center moves farther
	// than this many pixels between frames.
	CenterJumpPx float64

	// SmoothingAlpha is the EMA factor applied to accepted boxes.
	// Higher values follow the raw tracker more closely.
	SmoothingAlpha float64
}

// DefaultConfig returns the tuning used by the interactive tool.
func DefaultConfig() Config {
	return Config{
		Tracker:        KindCSRT,
		IoUMin:         0.15,
		ScaleChangeMax: 0.35,
		CenterJumpPx:   80.0,
		SmoothingAlpha: 0.65,
	}
}

// Engine runs a sequential tracking pass over a project's frame range,
// following every marked target at once and storing per-frame samples
// with confidence scores in the project's result set.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.SmoothingAlpha <= 0 || cfg.SmoothingAlpha > 1 {
		cfg.SmoothingAlpha = DefaultConfig().SmoothingAlpha
	}
	return &Engine{cfg: cfg}
}

// targetState carries per-target bookkeeping through the frame loop.
type targetState struct {
	target     *project.Target
	tracker    *Tracker
	prevRaw    image.Rectangle
	prevSmooth image.Rectangle
	hasPrev    bool
}

// Track runs tracking for every target across the project's trimmed
// frame range. Results accumulate in p.Results; a prior partial run
// resumes from the earliest invalidated frame.
func (e *Engine) Track(ctx context.Context, p *project.Project, progress func(done, total int)) error {
	if !p.HasTargets() {
		return fmt.Errorf("no targets marked on %s", p.VideoPath)
	}

	src, err := video.Open(p.VideoPath)
	if err != nil {
		return err
	}
	defer src.Close()

	meta := src.Metadata()
	if p.Meta == nil {
		m := meta
		p.Meta = &m
	}
	if meta.FrameCount == 0 {
		return fmt.Errorf("video %s has no frames", p.VideoPath)
	}

	start, end := p.Range()
	if end < 0 || end >= meta.FrameCount {
		end = meta.FrameCount - 1
	}
	if start < 0 || start > end {
		return fmt.Errorf("invalid frame range %d-%d", start, end)
	}

	resume := p.ResumeStart(start)
	for _, t := range p.Targets {
		p.Results.InvalidateFrom(t.ID, resume)
	}

	states := make([]*targetState, 0, len(p.Targets))
	defer func() {
		for _, st := range states {
			st.tracker.Close()
		}
	}()
	for _, t := range p.Targets {
		st := &targetState{target: t, tracker: New(e.cfg.Tracker)}
		// Seed the smoothing chain from the last kept sample.
		if s, ok := p.Results.At(t.ID, resume-1); ok && s.OK {
			st.prevRaw = s.Box
			st.prevSmooth = s.Box
			st.hasPrev = true
		}
		states = append(states, st)
	}

	if resume > 0 {
		if err := src.Seek(resume); err != nil {
			return fmt.Errorf("seek to resume frame %d: %w", resume, err)
		}
	}

	log.Printf("tracking %s: %d targets, frames %d-%d", p.VideoPath, len(states), resume, end)

	frame := gocv.NewMat()
	defer frame.Close()

	total := end - resume + 1
	processed := 0
	for idx := resume; idx <= end; idx++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !src.Next(&frame) {
			log.Printf("failed to read frame %d of %s, stopping early", idx, p.VideoPath)
			break
		}

		for _, st := range states {
			e.step(p, st, frame, idx, resume)
		}

		processed++
		if progress != nil {
			progress(processed, total)
		}
	}

	if processed == 0 {
		return fmt.Errorf("no frames processed for %s", p.VideoPath)
	}
	p.ClearRecompute()

	for _, st := range states {
		stats := StatsFor(p, st.target.ID)
		log.Printf("target %d (%s): %d tracked, %d lost, avg confidence %.2f",
			st.target.ID, st.target.Name, stats.Tracked, stats.Lost, stats.AvgConfidence)
	}
	return nil
}

// step advances one target by one frame, re-initializing at key frames
// and applying quality checks and smoothing to tracker output.
func (e *Engine) step(p *project.Project, st *targetState, frame gocv.Mat, idx, resume int) {
	t := st.target

	keyBox, isKeyFrame := t.KeyFrames[idx]
	switch {
	case isKeyFrame:
		// A key frame pins the exact position and restarts the tracker.
		if st.tracker.Init(frame, keyBox) {
			e.accept(p, st, idx, keyBox, 1.0, true)
		} else {
			e.reject(p, st, idx, true)
		}
		return
	case idx == resume && !st.tracker.Initialized():
		nearest, box, ok := t.NearestKeyFrame(resume)
		if !ok || nearest > resume {
			// First key frame is still ahead; nothing to track yet.
			e.reject(p, st, idx, false)
			return
		}
		if dist := resume - nearest; dist > 50 {
			log.Printf("target %d: nearest key frame %d is %d frames before tracking start %d", t.ID, nearest, dist, resume)
		}
		if st.tracker.Init(frame, box) {
			e.accept(p, st, idx, box, 1.0, false)
		} else {
			e.reject(p, st, idx, false)
		}
		return
	case !st.tracker.Initialized():
		e.reject(p, st, idx, false)
		return
	}

	raw, ok := st.tracker.Update(frame)
	e.advance(p, st, idx, raw, ok)
}

// advance applies the quality checks and smoothing to one raw tracker
// box and records the sample.
func (e *Engine) advance(p *project.Project, st *targetState, idx int, raw image.Rectangle, ok bool) {
	if !ok {
		e.reject(p, st, idx, false)
		return
	}

	confidence := 0.8
	if st.hasPrev {
		suspicious := e.violations(st.prevRaw, raw)
		confidence -= 0.25 * float64(suspicious)
		// Two or more independent violations means the tracker most
		// likely latched onto something else.
		if suspicious >= 2 {
			e.reject(p, st, idx, false)
			return
		}
	}

	smoothed := raw
	if st.hasPrev {
		smoothed = e.smooth(st.prevSmooth, raw)
	}

	e.accept(p, st, idx, smoothed, confidence, false)
	// Quality checks compare raw against raw; the smoothed box lags
	// behind on purpose.
	st.prevRaw = raw
}

// violations counts independent quality checks the raw box fails
// against the previous frame's raw box.
func (e *Engine) violations(prev, raw image.Rectangle) int {
	n := 0
	if IoU(raw, prev) < e.cfg.IoUMin {
		n++
	}
	if SizeChange(prev, raw) > e.cfg.ScaleChangeMax {
		n++
	}
	if CenterDistance(prev, raw) > e.cfg.CenterJumpPx {
		n++
	}
	return n
}

// smooth blends the raw box into the smoothing chain, damping sudden
// jumps harder.
func (e *Engine) smooth(prevSmooth, raw image.Rectangle) image.Rectangle {
	alpha := e.cfg.SmoothingAlpha
	if CenterDistance(raw, prevSmooth) > e.cfg.CenterJumpPx/2 {
		alpha = alpha / 2
		if alpha < 0.15 {
			alpha = 0.15
		}
	}
	return EMA(prevSmooth, raw, alpha)
}

func (e *Engine) accept(p *project.Project, st *targetState, idx int, box image.Rectangle, confidence float64, keyFrame bool) {
	// Key-frame corrections must reset the comparison baseline too, or
	// the next frame gets judged against a stale position.
	st.prevRaw = box
	st.prevSmooth = box
	st.hasPrev = true
	p.Results.Set(st.target.ID, idx, project.Sample{
		Box:         box,
		OriginalBox: st.target.OriginalFromPadded(box),
		OK:          true,
		Confidence:  confidence,
		KeyFrame:    keyFrame,
	})
}

func (e *Engine) reject(p *project.Project, st *targetState, idx int, keyFrame bool) {
	p.Results.Set(st.target.ID, idx, project.Sample{KeyFrame: keyFrame})
}

// Stats summarizes a finished tracking run for one target.
type Stats struct {
	Tracked       int     `json:"tracked"`
	Lost          int     `json:"lost"`
	KeyFrames     int     `json:"key_frames"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// StatsFor aggregates sample counts for a target from the result set.
func StatsFor(p *project.Project, targetID int) Stats {
	var st Stats
	var confSum float64
	for _, s := range p.Results[targetID] {
		if s.OK {
			st.Tracked++
			confSum += s.Confidence
		} else {
			st.Lost++
		}
		if s.KeyFrame {
			st.KeyFrames++
		}
	}
	if st.Tracked > 0 {
		st.AvgConfidence = confSum / float64(st.Tracked)
	}
	return st
}
