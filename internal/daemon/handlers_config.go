package daemon

import (
	"net/http"

	"playtrack/internal/track"
)

// handleHealth godoc
// @Summary Health check
// @Description Returns service health and version.
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

// handleConfig godoc
// @Summary Get or update configuration
// @Description Returns the current configuration on GET and updates selected fields on PUT.
// @Tags config
// @Accept json
// @Produce json
// @Param request body ConfigUpdateRequest false "Fields to update (PUT only)"
// @Success 200 {object} Config
// @Success 200 {object} StatusResponse "Update acknowledgment"
// @Failure 400 {object} ErrorResponse
// @Router /config [get]
// @Router /config [put]
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.RLock()
		cfg := s.config
		s.mu.RUnlock()
		writeJSON(w, http.StatusOK, cfg)
	case http.MethodPut:
		var req struct {
			OutputDir          *string  `json:"output_dir"`
			MaxDurationSeconds *float64 `json:"max_duration_seconds"`
			PreviewFrameRate   *float64 `json:"preview_frame_rate"`
			PreviewMaxWidth    *int     `json:"preview_max_width"`
			Tracker            *string  `json:"tracker"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json payload")
			return
		}
		if req.Tracker != nil {
			kind := track.Kind(*req.Tracker)
			if kind != track.KindCSRT && kind != track.KindKCF {
				writeError(w, http.StatusBadRequest, "unknown tracker kind")
				return
			}
		}
		s.mu.Lock()
		if req.OutputDir != nil {
			s.config.OutputDir = *req.OutputDir
		}
		if req.MaxDurationSeconds != nil && *req.MaxDurationSeconds > 0 {
			s.config.MaxDurationSeconds = *req.MaxDurationSeconds
			s.manager.MaxDurationSeconds = *req.MaxDurationSeconds
		}
		if req.PreviewFrameRate != nil && *req.PreviewFrameRate > 0 {
			s.config.PreviewFrameRate = *req.PreviewFrameRate
		}
		if req.PreviewMaxWidth != nil && *req.PreviewMaxWidth > 0 {
			s.config.PreviewMaxWidth = *req.PreviewMaxWidth
		}
		if req.Tracker != nil {
			s.config.Tracker = *req.Tracker
			s.tracker = track.NewEngine(trackConfig(s.config))
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
