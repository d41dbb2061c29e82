package project

// Status tracks where a project sits in the mark -> track -> export
// lifecycle. The normal order is pending, marked, tracking, tracked,
// exporting, exported. Failed is reachable from any processing step and
// skipped is assigned by the batch pipeline to projects with no targets.
type Status string

const (
	StatusPending   Status = "pending"
	StatusMarked    Status = "marked"
	StatusTracking  Status = "tracking"
	StatusTracked   Status = "tracked"
	StatusExporting Status = "exporting"
	StatusExported  Status = "exported"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

func (s Status) String() string {
	return string(s)
}

// ReadyForExport reports whether the batch pipeline should pick up a
// project in this state.
func (s Status) ReadyForExport() bool {
	return s == StatusMarked || s == StatusTracked
}

// Active reports whether a background operation is currently running.
func (s Status) Active() bool {
	return s == StatusTracking || s == StatusExporting
}

// Terminal reports whether the batch pipeline is done with the project.
func (s Status) Terminal() bool {
	return s == StatusExported || s == StatusFailed || s == StatusSkipped
}

var statusOrder = map[Status]int{
	StatusPending:   0,
	StatusMarked:    1,
	StatusTracking:  2,
	StatusTracked:   3,
	StatusExporting: 4,
	StatusExported:  5,
}

// CanTransition reports whether moving from s to next follows the
// documented order. Failed is allowed from any state; skipped only from
// non-active states; marked may be re-entered after a tracking reset.
func (s Status) CanTransition(next Status) bool {
	if next == StatusFailed {
		return true
	}
	if next == StatusSkipped {
		return !s.Active()
	}
	if next == StatusMarked {
		// Marking again or resetting tracking drops back to marked.
		return s != StatusTracking && s != StatusExporting
	}
	from, okFrom := statusOrder[s]
	to, okTo := statusOrder[next]
	if !okFrom || !okTo {
		return false
	}
	return to == from+1
}
