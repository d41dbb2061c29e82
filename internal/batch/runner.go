package batch

import (
	"context"
	"fmt"
	"log"
	"sync"

	"playtrack/internal/project"
)

// Tracker produces tracking samples for a project's targets.
type Tracker interface {
	Track(ctx context.Context, p *project.Project, progress func(done, total int)) error
}

// Exporter renders a project's tracked markers to a new video file and
// returns the path it wrote.
type Exporter interface {
	Export(ctx context.Context, p *project.Project, outputDir string, progress func(done, total int)) (string, error)
}

// Hooks receive batch progress callbacks. Any field may be nil.
type Hooks struct {
	ProjectStarted  func(index, total int, p *project.Project)
	Progress        func(p *project.Project, phase string, done, total int)
	ProjectFinished func(p *project.Project, err error)
	Completed       func(s Summary)
}

// Summary reports the outcome of a batch run.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Runner processes projects one at a time: track, then export. A
// failure in one project is recorded on it and the run continues with
// the next; cancellation is honored between projects.
type Runner struct {
	tracker  Tracker
	exporter Exporter

	// OutputDir receives the exported videos.
	OutputDir string

	// Guard, when set, is held while project fields are mutated so a
	// caller serving the same projects concurrently can read them
	// under the same lock. Hooks run outside the guard.
	Guard sync.Locker

	Hooks Hooks
}

func NewRunner(tracker Tracker, exporter Exporter, outputDir string) *Runner {
	return &Runner{
		tracker:   tracker,
		exporter:  exporter,
		OutputDir: outputDir,
	}
}

// withGuard runs fn with the guard held, if one is configured.
func (r *Runner) withGuard(fn func()) {
	if r.Guard != nil {
		r.Guard.Lock()
		defer r.Guard.Unlock()
	}
	fn()
}

// Run processes every project in order and returns a summary. The
// returned error is non-nil only when the context is canceled; per-
// project failures are recorded on each project instead.
func (r *Runner) Run(ctx context.Context, projects []*project.Project) (Summary, error) {
	sum := Summary{Total: len(projects)}

	for i, p := range projects {
		select {
		case <-ctx.Done():
			if r.Hooks.Completed != nil {
				r.Hooks.Completed(sum)
			}
			return sum, ctx.Err()
		default:
		}

		if r.Hooks.ProjectStarted != nil {
			r.Hooks.ProjectStarted(i, len(projects), p)
		}

		var noTargets, notReady bool
		var status project.Status
		r.withGuard(func() {
			noTargets = !p.HasTargets()
			notReady = !p.Status.ReadyForExport()
			status = p.Status
			if noTargets {
				p.Status = project.StatusSkipped
				p.LastError = "no targets marked"
			}
		})

		if noTargets {
			sum.Skipped++
			log.Printf("skipping %s: no targets marked", p.VideoPath)
			if r.Hooks.ProjectFinished != nil {
				r.Hooks.ProjectFinished(p, nil)
			}
			continue
		}

		// Already exported or otherwise not ready; leave it untouched.
		if notReady {
			sum.Skipped++
			log.Printf("skipping %s: status %s", p.VideoPath, status)
			if r.Hooks.ProjectFinished != nil {
				r.Hooks.ProjectFinished(p, nil)
			}
			continue
		}

		if err := r.process(ctx, p); err != nil {
			// Cancellation mid-project aborts the whole run.
			if ctx.Err() != nil {
				r.withGuard(func() { p.Fail(err) })
				sum.Failed++
				if r.Hooks.ProjectFinished != nil {
					r.Hooks.ProjectFinished(p, err)
				}
				if r.Hooks.Completed != nil {
					r.Hooks.Completed(sum)
				}
				return sum, ctx.Err()
			}
			r.withGuard(func() { p.Fail(err) })
			sum.Failed++
			log.Printf("project %s failed: %v", p.VideoPath, err)
			if r.Hooks.ProjectFinished != nil {
				r.Hooks.ProjectFinished(p, err)
			}
			continue
		}

		sum.Succeeded++
		if r.Hooks.ProjectFinished != nil {
			r.Hooks.ProjectFinished(p, nil)
		}
	}

	if r.Hooks.Completed != nil {
		r.Hooks.Completed(sum)
	}
	return sum, nil
}

// process tracks (unless results already exist) and exports one project.
func (r *Runner) process(ctx context.Context, p *project.Project) error {
	var needsTracking bool
	r.withGuard(func() {
		needsTracking = !p.Results.HasData() || p.Status == project.StatusMarked
		if needsTracking {
			p.Status = project.StatusTracking
		}
	})

	if needsTracking {
		err := r.tracker.Track(ctx, p, func(done, total int) {
			if r.Hooks.Progress != nil {
				r.Hooks.Progress(p, "tracking", done, total)
			}
		})
		if err != nil {
			return fmt.Errorf("track: %w", err)
		}
		r.withGuard(func() { p.Status = project.StatusTracked })
	}

	r.withGuard(func() { p.Status = project.StatusExporting })
	outPath, err := r.exporter.Export(ctx, p, r.OutputDir, func(done, total int) {
		if r.Hooks.Progress != nil {
			r.Hooks.Progress(p, "exporting", done, total)
		}
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	r.withGuard(func() {
		p.OutputPath = outPath
		p.Status = project.StatusExported
	})
	return nil
}
