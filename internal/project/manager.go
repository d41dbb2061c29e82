package project

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"playtrack/internal/video"
)

const (
	// DefaultMaxDurationSeconds caps accepted clips at one minute.
	DefaultMaxDurationSeconds = 60.0

	// Resolutions beyond 4K are accepted with a logged warning.
	maxComfortablePixels = 3840 * 2160
)

var (
	ErrDuplicate   = errors.New("video already added")
	ErrUnsupported = errors.New("unsupported video format")
	ErrTooLong     = errors.New("video exceeds maximum duration")
)

// ProbeFunc reads metadata for a video file.
type ProbeFunc func(path string) (*video.Metadata, error)

// Manager holds an ordered collection of projects for batch processing.
type Manager struct {
	// MaxDurationSeconds rejects longer clips at add time.
	MaxDurationSeconds float64

	probe    ProbeFunc
	projects []*Project
	current  int
}

// NewManager creates an empty manager. A nil probe uses video.Probe.
func NewManager(probe ProbeFunc) *Manager {
	if probe == nil {
		probe = video.Probe
	}
	return &Manager{
		MaxDurationSeconds: DefaultMaxDurationSeconds,
		probe:              probe,
		current:            -1,
	}
}

// SupportedExtension reports whether the file name has an accepted
// container extension.
func SupportedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".mov", ".mkv", ".webm":
		return true
	default:
		return false
	}
}

// Add probes a video and appends a new pending project. Duplicates,
// unsupported containers and clips over the duration cap are rejected.
func (m *Manager) Add(path string) (*Project, error) {
	if !SupportedExtension(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	for _, p := range m.projects {
		if p.VideoPath == path {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, path)
		}
	}

	meta, err := m.probe(path)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	if m.MaxDurationSeconds > 0 && meta.Duration > m.MaxDurationSeconds {
		return nil, fmt.Errorf("%w: %.1fs > %.0fs", ErrTooLong, meta.Duration, m.MaxDurationSeconds)
	}
	if meta.Width*meta.Height > maxComfortablePixels {
		log.Printf("video %s exceeds 4K (%dx%d), processing may be slow", path, meta.Width, meta.Height)
	}

	p := New(path)
	p.Meta = meta
	m.projects = append(m.projects, p)
	return p, nil
}

// Remove deletes the project at index, keeping the current selection
// pointing at the same project where possible.
func (m *Manager) Remove(index int) bool {
	if index < 0 || index >= len(m.projects) {
		return false
	}
	m.projects = append(m.projects[:index], m.projects[index+1:]...)
	switch {
	case m.current == index:
		m.current = -1
	case m.current > index:
		m.current--
	}
	return true
}

// RemoveByID deletes the project with the given id.
func (m *Manager) RemoveByID(id string) bool {
	for i, p := range m.projects {
		if p.ID == id {
			return m.Remove(i)
		}
	}
	return false
}

// Get returns the project at index.
func (m *Manager) Get(index int) (*Project, bool) {
	if index < 0 || index >= len(m.projects) {
		return nil, false
	}
	return m.projects[index], true
}

// ByID returns the project with the given id.
func (m *Manager) ByID(id string) (*Project, bool) {
	for _, p := range m.projects {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Current returns the selected project, if any.
func (m *Manager) Current() (*Project, bool) {
	return m.Get(m.current)
}

// SetCurrent selects the project at index.
func (m *Manager) SetCurrent(index int) bool {
	if index < 0 || index >= len(m.projects) {
		return false
	}
	m.current = index
	return true
}

// Len returns the number of projects.
func (m *Manager) Len() int {
	return len(m.projects)
}

// Projects returns the projects in insertion order.
func (m *Manager) Projects() []*Project {
	out := make([]*Project, len(m.projects))
	copy(out, m.projects)
	return out
}

// ExportQueue returns the projects ready for batch export: marked or
// tracked, with at least one target.
func (m *Manager) ExportQueue() []*Project {
	var queue []*Project
	for _, p := range m.projects {
		if p.Status.ReadyForExport() && p.HasTargets() {
			queue = append(queue, p)
		}
	}
	return queue
}

// SkipUnmarked marks pending projects with no targets as skipped so a
// batch run can account for them without queueing them. Returns the
// number of projects it skipped.
func (m *Manager) SkipUnmarked() int {
	n := 0
	for _, p := range m.projects {
		if p.Status == StatusPending && !p.HasTargets() {
			p.Status = StatusSkipped
			p.LastError = "no targets marked"
			n++
		}
	}
	return n
}

// Clear drops all projects and the current selection.
func (m *Manager) Clear() {
	m.projects = nil
	m.current = -1
}

// Summary aggregates project statuses for progress reporting.
type Summary struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	Marked         int `json:"marked"`
	Tracked        int `json:"tracked"`
	Exported       int `json:"exported"`
	Failed         int `json:"failed"`
	Skipped        int `json:"skipped"`
	ReadyForExport int `json:"ready_for_export"`
}

// Summary counts projects per status.
func (m *Manager) Summary() Summary {
	sum := Summary{Total: len(m.projects)}
	for _, p := range m.projects {
		switch p.Status {
		case StatusPending:
			sum.Pending++
		case StatusMarked:
			sum.Marked++
		case StatusTracked:
			sum.Tracked++
		case StatusExported:
			sum.Exported++
		case StatusFailed:
			sum.Failed++
		case StatusSkipped:
			sum.Skipped++
		}
		if p.Status.ReadyForExport() && p.HasTargets() {
			sum.ReadyForExport++
		}
	}
	return sum
}
