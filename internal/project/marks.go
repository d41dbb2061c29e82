package project

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"os"

	"playtrack/internal/render"
)

// MarksFile is the headless equivalent of interactive marking: a JSON
// document listing videos and the subjects marked on them.
type MarksFile struct {
	Videos []VideoMarks `json:"videos"`
}

// VideoMarks describes one video's targets and optional trim range.
type VideoMarks struct {
	Path      string       `json:"path"`
	TrimStart *int         `json:"trim_start_frame,omitempty"`
	TrimEnd   *int         `json:"trim_end_frame,omitempty"`
	Targets   []TargetMark `json:"targets"`
}

// TargetMark describes one marked subject. Box is x, y, width, height.
type TargetMark struct {
	Name        string         `json:"name"`
	Style       string         `json:"style"`
	Frame       int            `json:"frame"`
	Box         [4]int         `json:"box"`
	OriginalBox *[4]int        `json:"original_box,omitempty"`
	KeyFrames   []KeyFrameMark `json:"key_frames,omitempty"`
}

// KeyFrameMark is a correction at a specific frame.
type KeyFrameMark struct {
	Frame       int     `json:"frame"`
	Box         [4]int  `json:"box"`
	OriginalBox *[4]int `json:"original_box,omitempty"`
}

// LoadMarks reads and parses a marks file.
func LoadMarks(path string) (*MarksFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read marks file: %w", err)
	}
	var marks MarksFile
	if err := json.Unmarshal(data, &marks); err != nil {
		return nil, fmt.Errorf("parse marks file: %w", err)
	}
	if len(marks.Videos) == 0 {
		return nil, fmt.Errorf("marks file %s lists no videos", path)
	}
	return &marks, nil
}

func rectFromBox(b [4]int) image.Rectangle {
	return image.Rect(b[0], b[1], b[0]+b[2], b[1]+b[3])
}

func optionalRect(b *[4]int) image.Rectangle {
	if b == nil {
		return image.Rectangle{}
	}
	return rectFromBox(*b)
}

// ApplyMarks adds each marked video as a project. Per-video failures are
// logged and skipped; an error is returned only when nothing loads.
func (m *Manager) ApplyMarks(marks *MarksFile) ([]*Project, error) {
	var loaded []*Project
	for _, vm := range marks.Videos {
		p, err := m.Add(vm.Path)
		if err != nil {
			log.Printf("skipping %s: %v", vm.Path, err)
			continue
		}
		if vm.TrimStart != nil {
			p.TrimStart = *vm.TrimStart
		}
		if vm.TrimEnd != nil {
			p.TrimEnd = *vm.TrimEnd
		}
		if err := applyTargets(p, vm.Targets); err != nil {
			log.Printf("skipping %s: %v", vm.Path, err)
			m.RemoveByID(p.ID)
			continue
		}
		loaded = append(loaded, p)
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("no usable videos in marks file")
	}
	return loaded, nil
}

func applyTargets(p *Project, marks []TargetMark) error {
	for _, tm := range marks {
		t, err := p.AddTarget(tm.Name, render.Style(tm.Style), tm.Frame, rectFromBox(tm.Box), optionalRect(tm.OriginalBox))
		if err != nil {
			return fmt.Errorf("target %q: %w", tm.Name, err)
		}
		for _, kf := range tm.KeyFrames {
			if err := p.AddKeyFrame(t.ID, kf.Frame, rectFromBox(kf.Box), optionalRect(kf.OriginalBox)); err != nil {
				return fmt.Errorf("target %q key frame %d: %w", tm.Name, kf.Frame, err)
			}
		}
	}
	// Key frames loaded from a marks file are initial state, not
	// corrections; nothing needs recomputing yet.
	p.ClearRecompute()
	return nil
}
