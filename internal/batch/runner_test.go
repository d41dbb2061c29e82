package batch

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playtrack/internal/project"
	"playtrack/internal/render"
)

type stubTracker struct {
	calls int
	fail  map[string]error
}

func (s *stubTracker) Track(ctx context.Context, p *project.Project, progress func(done, total int)) error {
	s.calls++
	if err := s.fail[p.VideoPath]; err != nil {
		return err
	}
	for _, t := range p.Targets {
		p.Results.Set(t.ID, 0, project.Sample{Box: t.Box, OK: true, Confidence: 1})
	}
	if progress != nil {
		progress(1, 1)
	}
	return nil
}

type stubExporter struct {
	calls int
	fail  map[string]error
	block chan struct{}
}

func (s *stubExporter) Export(ctx context.Context, p *project.Project, outputDir string, progress func(done, total int)) (string, error) {
	s.calls++
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := s.fail[p.VideoPath]; err != nil {
		return "", err
	}
	if progress != nil {
		progress(1, 1)
	}
	return outputDir + "/out.mp4", nil
}

func markedProject(t *testing.T, path string) *project.Project {
	t.Helper()
	p := project.New(path)
	_, err := p.AddTarget("subject", render.StyleArrow, 0, image.Rect(10, 10, 60, 110), image.Rectangle{})
	require.NoError(t, err)
	return p
}

func TestRunnerHappyPath(t *testing.T) {
	tracker := &stubTracker{}
	exporter := &stubExporter{}
	r := NewRunner(tracker, exporter, t.TempDir())

	a := markedProject(t, "/v/a.mp4")
	b := markedProject(t, "/v/b.mp4")

	sum, err := r.Run(context.Background(), []*project.Project{a, b})
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 2, Succeeded: 2}, sum)
	assert.Equal(t, project.StatusExported, a.Status)
	assert.Equal(t, project.StatusExported, b.Status)
	assert.NotEmpty(t, a.OutputPath)
	assert.Equal(t, 2, tracker.calls)
	assert.Equal(t, 2, exporter.calls)
}

func TestRunnerSkipsProjectsWithoutTargets(t *testing.T) {
	r := NewRunner(&stubTracker{}, &stubExporter{}, t.TempDir())
	empty := project.New("/v/empty.mp4")

	sum, err := r.Run(context.Background(), []*project.Project{empty})
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 1, Skipped: 1}, sum)
	assert.Equal(t, project.StatusSkipped, empty.Status)
	assert.Equal(t, "no targets marked", empty.LastError)
}

func TestRunnerSkipsExportedProjects(t *testing.T) {
	tracker := &stubTracker{}
	exporter := &stubExporter{}
	r := NewRunner(tracker, exporter, t.TempDir())

	done := markedProject(t, "/v/done.mp4")
	done.Status = project.StatusExported

	sum, err := r.Run(context.Background(), []*project.Project{done})
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 1, Skipped: 1}, sum)
	assert.Equal(t, project.StatusExported, done.Status, "untouched")
	assert.Equal(t, 0, exporter.calls)
}

func TestRunnerFailureIsolation(t *testing.T) {
	a := markedProject(t, "/v/a.mp4")
	bad := markedProject(t, "/v/bad.mp4")
	c := markedProject(t, "/v/c.mp4")

	tracker := &stubTracker{fail: map[string]error{"/v/bad.mp4": errors.New("tracker lost its mind")}}
	r := NewRunner(tracker, &stubExporter{}, t.TempDir())

	sum, err := r.Run(context.Background(), []*project.Project{a, bad, c})
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 3, Succeeded: 2, Failed: 1}, sum)
	assert.Equal(t, project.StatusFailed, bad.Status)
	assert.Contains(t, bad.LastError, "tracker lost its mind")
	// The failure did not stop the project after it.
	assert.Equal(t, project.StatusExported, c.Status)
}

func TestRunnerExportFailure(t *testing.T) {
	p := markedProject(t, "/v/a.mp4")
	exporter := &stubExporter{fail: map[string]error{"/v/a.mp4": errors.New("disk full")}}
	r := NewRunner(&stubTracker{}, exporter, t.TempDir())

	sum, err := r.Run(context.Background(), []*project.Project{p})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, project.StatusFailed, p.Status)
	assert.Contains(t, p.LastError, "disk full")
}

func TestRunnerSkipsTrackingWhenResultsExist(t *testing.T) {
	p := markedProject(t, "/v/a.mp4")
	p.Results.Set(p.Targets[0].ID, 0, project.Sample{OK: true})
	p.Status = project.StatusTracked

	tracker := &stubTracker{}
	r := NewRunner(tracker, &stubExporter{}, t.TempDir())
	sum, err := r.Run(context.Background(), []*project.Project{p})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 0, tracker.calls, "existing results are reused")
}

type countingLocker struct {
	sync.Mutex
	locks int
}

func (c *countingLocker) Lock() {
	c.Mutex.Lock()
	c.locks++
}

func TestRunnerMutatesProjectsUnderGuard(t *testing.T) {
	guard := &countingLocker{}
	r := NewRunner(&stubTracker{}, &stubExporter{}, t.TempDir())
	r.Guard = guard

	ok := markedProject(t, "/v/a.mp4")
	bad := markedProject(t, "/v/bad.mp4")
	r.tracker = &stubTracker{fail: map[string]error{"/v/bad.mp4": errors.New("boom")}}

	sum, err := r.Run(context.Background(), []*project.Project{ok, bad})
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 2, Succeeded: 1, Failed: 1}, sum)
	assert.Equal(t, project.StatusExported, ok.Status)
	assert.NotEmpty(t, ok.OutputPath)
	assert.Equal(t, project.StatusFailed, bad.Status)

	// Every status, error and output-path write goes through the lock.
	assert.GreaterOrEqual(t, guard.locks, 6)
}

func TestRunnerCancellationBetweenProjects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := markedProject(t, "/v/a.mp4")
	r := NewRunner(&stubTracker{}, &stubExporter{}, t.TempDir())
	sum, err := r.Run(ctx, []*project.Project{a})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sum.Succeeded)
	// Untouched, not failed: the run never reached it.
	assert.Equal(t, project.StatusMarked, a.Status)
}

func TestRunnerHooks(t *testing.T) {
	a := markedProject(t, "/v/a.mp4")
	empty := project.New("/v/empty.mp4")

	var started, finished int
	var phases []string
	var completed *Summary

	r := NewRunner(&stubTracker{}, &stubExporter{}, t.TempDir())
	r.Hooks = Hooks{
		ProjectStarted:  func(index, total int, p *project.Project) { started++ },
		Progress:        func(p *project.Project, phase string, done, total int) { phases = append(phases, phase) },
		ProjectFinished: func(p *project.Project, err error) { finished++ },
		Completed:       func(s Summary) { completed = &s },
	}

	_, err := r.Run(context.Background(), []*project.Project{a, empty})
	require.NoError(t, err)
	assert.Equal(t, 2, started)
	assert.Equal(t, 2, finished)
	assert.Contains(t, phases, "tracking")
	assert.Contains(t, phases, "exporting")
	require.NotNil(t, completed)
	assert.Equal(t, Summary{Total: 2, Succeeded: 1, Skipped: 1}, *completed)
}
