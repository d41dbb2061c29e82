package daemon

import (
	"errors"
	"time"

	"playtrack/internal/track"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Config holds the daemon's processing settings.
type Config struct {
	OutputDir          string  `json:"output_dir" example:"/exports"`
	MaxDurationSeconds float64 `json:"max_duration_seconds" example:"60"`
	PreviewFrameRate   float64 `json:"preview_frame_rate" example:"2.0"`
	PreviewMaxWidth    int     `json:"preview_max_width" example:"960"`
	Tracker            string  `json:"tracker" example:"csrt"`
	Stateless          bool    `json:"stateless" example:"false"`
}

// Job represents a background track, export or batch run.
type Job struct {
	ID        string    `json:"job_id" example:"job_abcd1234"`
	ProjectID string    `json:"project_id,omitempty" example:"prj_abcd1234"`
	Type      string    `json:"type" example:"track"`
	Status    string    `json:"status" example:"running"`
	Phase     string    `json:"phase,omitempty" example:"tracking"`
	Progress  float64   `json:"progress" example:"0.42"`
	Error     string    `json:"error,omitempty" example:"no targets marked"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-01T12:00:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-01T12:05:00Z"`
}

// ErrorResponse represents a standard error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"description of the error"`
}

// HealthResponse describes the health endpoint payload.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version" example:"0.1.0"`
}

// ConfigUpdateRequest allows partial configuration updates.
type ConfigUpdateRequest struct {
	OutputDir          *string  `json:"output_dir" example:"/exports"`
	MaxDurationSeconds *float64 `json:"max_duration_seconds" example:"60"`
	PreviewFrameRate   *float64 `json:"preview_frame_rate" example:"2.0"`
	PreviewMaxWidth    *int     `json:"preview_max_width" example:"960"`
	Tracker            *string  `json:"tracker" example:"kcf"`
}

// StatusResponse is a generic status wrapper.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// AddProjectRequest registers a new video for marking.
type AddProjectRequest struct {
	Path string `json:"path" example:"/videos/clip.mp4"`
}

// AddProjectResponse returns the created project ID.
type AddProjectResponse struct {
	ProjectID string `json:"project_id" example:"prj_abcd1234"`
	Status    string `json:"status" example:"pending"`
}

// AddTargetRequest marks a subject on a project. Box is x, y, width,
// height in pixels of the frame the subject was marked on.
type AddTargetRequest struct {
	Name        string  `json:"name" example:"player 7"`
	Style       string  `json:"style" example:"arrow"`
	Frame       int     `json:"frame" example:"0"`
	Box         [4]int  `json:"box" swaggertype:"array,integer" example:"120,80,64,128"`
	OriginalBox *[4]int `json:"original_box,omitempty" swaggertype:"array,integer" example:"128,90,48,108"`
}

// AddTargetResponse returns the created target ID.
type AddTargetResponse struct {
	TargetID int    `json:"target_id" example:"1"`
	Status   string `json:"status" example:"marked"`
}

// AddKeyFrameRequest records a position correction for a target.
type AddKeyFrameRequest struct {
	Frame       int     `json:"frame" example:"140"`
	Box         [4]int  `json:"box" swaggertype:"array,integer" example:"200,90,64,128"`
	OriginalBox *[4]int `json:"original_box,omitempty" swaggertype:"array,integer" example:"208,100,48,108"`
}

// StartJobResponse provides the started job ID.
type StartJobResponse struct {
	Status string `json:"status" example:"started"`
	JobID  string `json:"job_id" example:"job_abcd1234"`
}

// CancelJobResponse indicates a cancellation attempt.
type CancelJobResponse struct {
	Status string `json:"status" example:"cancelling"`
}

// ReviewResponse wraps per-target tracking quality reports.
type ReviewResponse struct {
	Reports []track.Report `json:"reports"`
}

// DetectRequest asks for person detection on one frame. Click, when
// set, snaps the result to the detection nearest that point.
type DetectRequest struct {
	Frame int     `json:"frame" example:"0"`
	Click *[2]int `json:"click,omitempty" swaggertype:"array,integer" example:"320,180"`
}

// DetectResponse lists detected people as x, y, width, height boxes.
type DetectResponse struct {
	Detections [][4]int `json:"detections" swaggertype:"array,array,integer"`
	Suggested  *[4]int  `json:"suggested_box,omitempty" swaggertype:"array,integer" example:"120,80,64,128"`
}

// PreviewResponse describes extracted preview frames.
type PreviewResponse struct {
	Dir    string `json:"dir" example:"/previews/clip"`
	Frames int    `json:"frames" example:"48"`
}

var (
	errNotFound = errors.New("not found")
	errBusy     = errors.New("a job is already running")
)
