package daemon

import (
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"playtrack/internal/batch"
	"playtrack/internal/export"
	"playtrack/internal/project"
	"playtrack/internal/track"
)

// Server stores all in-memory state and exposes HTTP handlers.
type Server struct {
	mu          sync.RWMutex
	config      Config
	manager     *project.Manager
	jobs        map[string]*Job
	jobCancel   map[string]chan struct{}
	activeJob   string
	previewRoot string
	tracker     batch.Tracker
	exporter    batch.Exporter
	stateless   bool
	cleanupDirs []string
	cleanupOnce sync.Once
}

func NewServer() *Server {
	cfg := Config{
		OutputDir:          "exports",
		MaxDurationSeconds: project.DefaultMaxDurationSeconds,
		PreviewFrameRate:   2.0,
		PreviewMaxWidth:    960,
		Tracker:            string(track.KindCSRT),
	}

	if dir := os.Getenv("PLAYTRACK_OUTPUT_DIR"); dir != "" {
		cfg.OutputDir = dir
	}
	if v := os.Getenv("PLAYTRACK_MAX_DURATION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.MaxDurationSeconds = f
		}
	}
	if kind := os.Getenv("PLAYTRACK_TRACKER"); kind != "" {
		cfg.Tracker = kind
	}

	previewRoot := os.Getenv("PLAYTRACK_PREVIEW_DIR")
	stateless := os.Getenv("STATELESS_TEST") == "1" || os.Getenv("STATELESS_MODE") == "1"
	if stateless {
		if tmp, err := os.MkdirTemp("", "playtrack-previews-"); err == nil {
			previewRoot = tmp
		}
	}
	if previewRoot == "" {
		previewRoot = "previews"
	}

	cleanupDirs := []string{}
	if stateless {
		cleanupDirs = append(cleanupDirs, previewRoot)
	}
	cfg.Stateless = stateless

	manager := project.NewManager(nil)
	manager.MaxDurationSeconds = cfg.MaxDurationSeconds

	return &Server{
		config:      cfg,
		manager:     manager,
		jobs:        make(map[string]*Job),
		jobCancel:   make(map[string]chan struct{}),
		previewRoot: previewRoot,
		tracker:     track.NewEngine(trackConfig(cfg)),
		exporter:    export.NewExporter(),
		stateless:   stateless,
		cleanupDirs: cleanupDirs,
	}
}

func trackConfig(cfg Config) track.Config {
	tc := track.DefaultConfig()
	tc.Tracker = track.Kind(cfg.Tracker)
	return tc
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Logging
	r.Use(logRequestMiddleware)

	// CORS to allow local client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger docs
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Config and health
	r.Get("/health", s.handleHealth)
	r.MethodFunc(http.MethodGet, "/config", s.handleConfig)
	r.MethodFunc(http.MethodPut, "/config", s.handleConfig)

	// Projects
	r.MethodFunc(http.MethodGet, "/projects", s.handleProjects)
	r.MethodFunc(http.MethodPost, "/projects", s.handleProjects)
	r.MethodFunc(http.MethodGet, "/projects/summary", s.handleSummary)
	r.Route("/projects/{projectID}", func(r chi.Router) {
		r.MethodFunc(http.MethodGet, "/", s.handleGetProject)
		r.MethodFunc(http.MethodDelete, "/", s.handleDeleteProject)
		r.MethodFunc(http.MethodPost, "/targets", s.handleAddTarget)
		r.MethodFunc(http.MethodPost, "/targets/{targetID}/keyframes", s.handleAddKeyFrame)
		r.MethodFunc(http.MethodPost, "/track", s.handleTrack)
		r.MethodFunc(http.MethodGet, "/review", s.handleReview)
		r.MethodFunc(http.MethodPost, "/detect", s.handleDetect)
		r.MethodFunc(http.MethodPost, "/export", s.handleExport)
		r.MethodFunc(http.MethodPost, "/preview", s.handlePreview)
		r.MethodFunc(http.MethodPost, "/cancel", s.handleCancel)
		r.MethodFunc(http.MethodGet, "/file", s.handleProjectFile)
		r.MethodFunc(http.MethodGet, "/frames/{frameIndex}", s.handleFrame)
	})

	// Batch run over every ready project
	r.MethodFunc(http.MethodPost, "/batch", s.handleBatch)

	// Jobs
	r.MethodFunc(http.MethodGet, "/jobs", s.handleJobs)

	return r
}

// Cleanup removes temporary data when stateless mode is enabled.
func (s *Server) Cleanup() {
	if !s.stateless {
		return
	}
	s.cleanupOnce.Do(func() {
		for _, dir := range s.cleanupDirs {
			_ = os.RemoveAll(dir)
		}
	})
}
