package daemon

import (
	"errors"
	"image"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gocv.io/x/gocv"

	"playtrack/internal/detect"
	"playtrack/internal/preview"
	"playtrack/internal/project"
	"playtrack/internal/render"
	"playtrack/internal/track"
	"playtrack/internal/video"
)

// handleProjects godoc
// @Summary List or add projects
// @Description GET lists loaded projects; POST probes a video and adds a pending project.
// @Tags projects
// @Accept json
// @Produce json
// @Param request body AddProjectRequest true "Video to add (POST only)"
// @Success 200 {array} project.Project
// @Success 200 {object} AddProjectResponse
// @Failure 400 {object} ErrorResponse
// @Router /projects [get]
// @Router /projects [post]
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// Marshal under the lock: a batch run may be mutating these
		// projects concurrently.
		s.mu.RLock()
		body, err := snapshotJSON(s.manager.Projects())
		s.mu.RUnlock()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeRawJSON(w, http.StatusOK, body)
	case http.MethodPost:
		var req AddProjectRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json payload")
			return
		}
		if strings.TrimSpace(req.Path) == "" {
			writeError(w, http.StatusBadRequest, "path is required")
			return
		}
		s.mu.Lock()
		p, err := s.manager.Add(req.Path)
		s.mu.Unlock()
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, project.ErrDuplicate) {
				status = http.StatusConflict
			}
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, AddProjectResponse{
			ProjectID: p.ID,
			Status:    p.Status.String(),
		})
	}
}

// handleSummary godoc
// @Summary Project status summary
// @Description Returns per-status project counts for progress displays.
// @Tags projects
// @Produce json
// @Success 200 {object} project.Summary
// @Router /projects/summary [get]
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	sum := s.manager.Summary()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, sum)
}

// handleGetProject godoc
// @Summary Get project details
// @Description Returns a project with its metadata, targets and status.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} project.Project
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID} [get]
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	s.mu.RLock()
	p, ok := s.manager.ByID(projectID)
	var body []byte
	var err error
	if ok {
		body, err = snapshotJSON(p)
	}
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// handleDeleteProject godoc
// @Summary Remove a project
// @Description Removes a project from the daemon. The video file is untouched.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /projects/{projectID} [delete]
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.manager.ByID(projectID)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if p.Status.Active() {
		writeError(w, http.StatusConflict, "project has an active job")
		return
	}
	s.manager.RemoveByID(projectID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAddTarget godoc
// @Summary Mark a target
// @Description Marks a subject to track on a project. Box is x, y, width, height.
// @Tags projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param request body AddTargetRequest true "Target to mark"
// @Success 200 {object} AddTargetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/targets [post]
func (s *Server) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	var req AddTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.manager.ByID(projectID)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if p.Status.Active() {
		writeError(w, http.StatusConflict, "project has an active job")
		return
	}
	t, err := p.AddTarget(req.Name, render.Style(req.Style), req.Frame, boxToRect(req.Box), optionalBoxToRect(req.OriginalBox))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AddTargetResponse{
		TargetID: t.ID,
		Status:   p.Status.String(),
	})
}

// handleAddKeyFrame godoc
// @Summary Add a key frame correction
// @Description Records a corrected target position. Cached tracking results from that frame on are invalidated and the next run resumes there.
// @Tags projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param targetID path int true "Target ID"
// @Param request body AddKeyFrameRequest true "Correction"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/targets/{targetID}/keyframes [post]
func (s *Server) handleAddKeyFrame(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	targetID, err := strconv.Atoi(chi.URLParam(r, "targetID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target id")
		return
	}
	var req AddKeyFrameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.manager.ByID(projectID)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if p.Status.Active() {
		writeError(w, http.StatusConflict, "project has an active job")
		return
	}
	if err := p.AddKeyFrame(targetID, req.Frame, boxToRect(req.Box), optionalBoxToRect(req.OriginalBox)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTrack godoc
// @Summary Start a tracking job
// @Description Starts background tracking for the project's marked targets.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} StartJobResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /projects/{projectID}/track [post]
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	s.mu.RLock()
	p, ok := s.manager.ByID(projectID)
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if !p.HasTargets() {
		writeError(w, http.StatusBadRequest, "no targets marked")
		return
	}

	job, err := s.startJob("track", projectID, s.trackProject(p))
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started", "job_id": job.ID})
}

// handleReview godoc
// @Summary Review tracking quality
// @Description Analyzes finished tracking results and reports suspicious frames, gaps and suggested key-frame corrections per target.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} ReviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/review [get]
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	s.mu.RLock()
	p, ok := s.manager.ByID(projectID)
	hasData := false
	var reports []track.Report
	if ok {
		hasData = p.Results.HasData()
		if hasData {
			reports = track.NewAnalyzer(track.DefaultAnalyzerConfig()).Analyze(p)
		}
	}
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if !hasData {
		writeError(w, http.StatusBadRequest, "no tracking data to review")
		return
	}
	writeJSON(w, http.StatusOK, ReviewResponse{Reports: reports})
}

// handleDetect godoc
// @Summary Detect people on a frame
// @Description Runs person detection on one frame so a rough click can be turned into a precise target box.
// @Tags projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param request body DetectRequest true "Frame and optional click position"
// @Success 200 {object} DetectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/detect [post]
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	var req DetectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	if req.Frame < 0 {
		writeError(w, http.StatusBadRequest, "invalid frame index")
		return
	}

	s.mu.RLock()
	p, ok := s.manager.ByID(projectID)
	var videoPath string
	if ok {
		videoPath = p.VideoPath
	}
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	src, err := video.Open(videoPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer src.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	if err := src.FrameAt(req.Frame, &frame); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	det, err := detect.NewDetector()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer det.Close()

	people := det.People(frame)
	resp := DetectResponse{Detections: make([][4]int, 0, len(people))}
	for _, d := range people {
		resp.Detections = append(resp.Detections, rectToBox(d.Box))
	}
	if req.Click != nil {
		if d, ok := detect.SnapToClick(people, image.Pt(req.Click[0], req.Click[1])); ok {
			meta := src.Metadata()
			b := rectToBox(detect.PadBox(d.Box, 0.1, meta.Width, meta.Height))
			resp.Suggested = &b
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleExport godoc
// @Summary Start an export job
// @Description Renders tracked markers over the video and writes a new file with the original audio. Tracks first when needed.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} StartJobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /projects/{projectID}/export [post]
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	s.mu.RLock()
	p, ok := s.manager.ByID(projectID)
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if !p.HasTargets() {
		writeError(w, http.StatusBadRequest, "no targets marked")
		return
	}

	job, err := s.startJob("export", projectID, s.exportProject(p))
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started", "job_id": job.ID})
}

// handleBatch godoc
// @Summary Start a batch run
// @Description Tracks and exports every project that is marked or tracked with at least one target. Projects without targets are marked skipped; a failure in one does not stop the rest.
// @Tags projects
// @Produce json
// @Success 200 {object} StartJobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /batch [post]
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.manager.Len() == 0 {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "no projects loaded")
		return
	}
	s.manager.SkipUnmarked()
	queue := s.manager.ExportQueue()
	s.mu.Unlock()
	if len(queue) == 0 {
		writeError(w, http.StatusBadRequest, "no projects ready for export")
		return
	}

	job, err := s.startJob("batch", "", s.runBatch(queue))
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started", "job_id": job.ID})
}

// handlePreview godoc
// @Summary Extract preview frames
// @Description Samples the project's video into JPEG preview frames for client-side marking.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} PreviewResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /projects/{projectID}/preview [post]
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	s.mu.RLock()
	p, ok := s.manager.ByID(projectID)
	cfg := preview.Config{
		FrameRate: s.config.PreviewFrameRate,
		MaxWidth:  s.config.PreviewMaxWidth,
	}
	previewRoot := s.previewRoot
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	dir, err := preview.Extract(p.VideoPath, previewRoot, cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	frames, err := preview.CountFrames(dir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{Dir: dir, Frames: frames})
}

// handleCancel godoc
// @Summary Cancel the project's active job
// @Description Stops a running track or export job for the given project.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} CancelJobResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/cancel [post]
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if err := s.cancelJob(projectID); err != nil {
		if errors.Is(err, errNotFound) {
			writeError(w, http.StatusNotFound, "project not found or no active job")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelling"})
}

// handleProjectFile streams the exported video when present, otherwise
// the source video.
func (s *Server) handleProjectFile(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	s.mu.RLock()
	p, ok := s.manager.ByID(projectID)
	var path string
	if ok {
		path = p.OutputPath
		if path == "" {
			path = p.VideoPath
		}
	}
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if strings.TrimSpace(path) == "" {
		writeError(w, http.StatusNotFound, "no file for project")
		return
	}

	http.ServeFile(w, r, path)
}

// handleFrame godoc
// @Summary Fetch a single video frame
// @Description Decodes one frame of the project's video and returns it as a JPEG, for marking without streaming the whole clip.
// @Tags projects
// @Produce jpeg
// @Param projectID path string true "Project ID"
// @Param frameIndex path int true "Frame index"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/frames/{frameIndex} [get]
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	idx, err := strconv.Atoi(chi.URLParam(r, "frameIndex"))
	if err != nil || idx < 0 {
		writeError(w, http.StatusBadRequest, "invalid frame index")
		return
	}
	s.mu.RLock()
	p, ok := s.manager.ByID(projectID)
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	src, err := video.Open(p.VideoPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer src.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	if err := src.FrameAt(idx, &frame); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer buf.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.GetBytes())
}

func boxToRect(b [4]int) image.Rectangle {
	return image.Rect(b[0], b[1], b[0]+b[2], b[1]+b[3])
}

func rectToBox(r image.Rectangle) [4]int {
	return [4]int{r.Min.X, r.Min.Y, r.Dx(), r.Dy()}
}

func optionalBoxToRect(b *[4]int) image.Rectangle {
	if b == nil {
		return image.Rectangle{}
	}
	return boxToRect(*b)
}
