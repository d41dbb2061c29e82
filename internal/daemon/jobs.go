package daemon

import (
	"context"
	"time"

	"playtrack/internal/batch"
	"playtrack/internal/project"
)

// startJob schedules a background run. Only one job may be active at a
// time since tracking and export are CPU bound; a second request gets
// errBusy. projectID is empty for batch jobs.
func (s *Server) startJob(jobType, projectID string, run func(ctx context.Context, job *Job) error) (*Job, error) {
	s.mu.Lock()
	if s.activeJob != "" {
		s.mu.Unlock()
		return nil, errBusy
	}

	jobID := newID("job_")
	now := time.Now().UTC()
	job := &Job{
		ID:        jobID,
		ProjectID: projectID,
		Type:      jobType,
		Status:    "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[jobID] = job
	cancelCh := make(chan struct{})
	s.jobCancel[jobID] = cancelCh
	s.activeJob = jobID
	s.mu.Unlock()

	go s.runJob(jobID, cancelCh, run)
	return job, nil
}

// cancelJob stops the active job for a project (or any active batch).
func (s *Server) cancelJob(projectID string) error {
	s.mu.Lock()
	var jobID string
	for id, job := range s.jobs {
		if job.ProjectID == projectID && (job.Status == "running" || job.Status == "queued") {
			jobID = id
			break
		}
	}
	if jobID == "" {
		s.mu.Unlock()
		return errNotFound
	}
	cancelCh, ok := s.jobCancel[jobID]
	delete(s.jobCancel, jobID)
	s.mu.Unlock()
	if !ok {
		// An earlier cancel already closed the channel; the goroutine
		// just hasn't recorded the final state yet.
		return nil
	}

	// The running goroutine observes the close, cancels its context and
	// records the final state.
	close(cancelCh)
	return nil
}

// runJob executes the job body and records the outcome.
func (s *Server) runJob(jobID string, cancelCh <-chan struct{}, run func(ctx context.Context, job *Job) error) {
	defer func() {
		s.mu.Lock()
		delete(s.jobCancel, jobID)
		if s.activeJob == jobID {
			s.activeJob = ""
		}
		s.mu.Unlock()
	}()

	s.mu.Lock()
	job, ok := s.jobs[jobID]
	if !ok {
		s.mu.Unlock()
		return
	}
	job.Status = "running"
	job.UpdatedAt = time.Now().UTC()
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-cancelCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := run(ctx, job); err != nil {
		if ctx.Err() != nil {
			s.markJobCancelled(jobID)
			return
		}
		s.failJob(jobID, err)
		return
	}
	s.completeJob(jobID)
}

// updateProgress records job progress from a worker callback.
func (s *Server) updateProgress(jobID, phase string, done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	if total > 0 {
		progress := float64(done) / float64(total)
		if progress > job.Progress {
			job.Progress = progress
		}
	}
	job.Phase = phase
	job.UpdatedAt = time.Now().UTC()
}

func (s *Server) completeJob(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	job.Status = "done"
	job.Progress = 1
	job.UpdatedAt = time.Now().UTC()
}

func (s *Server) failJob(jobID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	job.Status = "failed"
	job.Error = err.Error()
	job.UpdatedAt = time.Now().UTC()
	if p, ok := s.manager.ByID(job.ProjectID); ok {
		p.Fail(err)
	}
}

func (s *Server) markJobCancelled(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	job.Status = "cancelled"
	job.UpdatedAt = time.Now().UTC()
	if p, ok := s.manager.ByID(job.ProjectID); ok && p.Status.Active() {
		// A cancelled run leaves partial results; the project can be
		// resumed from its marked state.
		p.Status = project.StatusMarked
		p.LastError = "cancelled"
	}
}

// trackProject is the job body for a single-project tracking run.
func (s *Server) trackProject(p *project.Project) func(ctx context.Context, job *Job) error {
	return func(ctx context.Context, job *Job) error {
		s.mu.Lock()
		p.Status = project.StatusTracking
		s.mu.Unlock()

		err := s.tracker.Track(ctx, p, func(done, total int) {
			s.updateProgress(job.ID, "tracking", done, total)
		})
		if err != nil {
			return err
		}

		s.mu.Lock()
		p.Status = project.StatusTracked
		s.mu.Unlock()
		return nil
	}
}

// exportProject is the job body for a single-project export. Tracking
// runs first when no results exist yet.
func (s *Server) exportProject(p *project.Project) func(ctx context.Context, job *Job) error {
	return func(ctx context.Context, job *Job) error {
		if !p.Results.HasData() {
			if err := s.trackProject(p)(ctx, job); err != nil {
				return err
			}
		}

		s.mu.Lock()
		p.Status = project.StatusExporting
		outputDir := s.config.OutputDir
		s.mu.Unlock()

		outPath, err := s.exporter.Export(ctx, p, outputDir, func(done, total int) {
			s.updateProgress(job.ID, "exporting", done, total)
		})
		if err != nil {
			return err
		}

		s.mu.Lock()
		p.OutputPath = outPath
		p.Status = project.StatusExported
		s.mu.Unlock()
		return nil
	}
}

// runBatch is the job body for a full batch run over the export queue.
func (s *Server) runBatch(queue []*project.Project) func(ctx context.Context, job *Job) error {
	return func(ctx context.Context, job *Job) error {
		s.mu.RLock()
		runner := batch.NewRunner(s.tracker, s.exporter, s.config.OutputDir)
		s.mu.RUnlock()
		// Handlers serve these same projects; mutate them under the
		// server lock.
		runner.Guard = &s.mu

		total := len(queue)
		runner.Hooks = batch.Hooks{
			ProjectStarted: func(index, _ int, p *project.Project) {
				s.updateProgress(job.ID, "project "+p.DisplayName(), index, total)
			},
		}
		_, err := runner.Run(ctx, queue)
		return err
	}
}
