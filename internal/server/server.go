package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/interviews/internal/config"
	"github.com/dukerupert/interviews/internal/handler"
	"github.com/dukerupert/interviews/internal/livefeed"
	"github.com/dukerupert/interviews/internal/middleware"
	"github.com/dukerupert/interviews/internal/scheduler"
	"github.com/dukerupert/interviews/internal/store"
	"github.com/dukerupert/interviews/internal/upload"
)

type Server struct {
	db             *sql.DB
	feed           *livefeed.Feed
	scheduleH      *handler.ScheduleHandler
	meetingH       *handler.MeetingHandler
	feedH          *handler.FeedHandler
	uploadH        *handler.UploadHandler
	draftH         *handler.DraftHandler
	uploadLimiter  *middleware.Limiter
	originPatterns []string
	trustProxy     bool
	logger         *slog.Logger
}

// New wires stores, the scheduler service and the handlers. clock may be
// zero, in which case the wall clock in cfg.Location is used.
func New(db *sql.DB, cfg *config.Config, clock handler.Clock, logger *slog.Logger) (*Server, error) {
	tmpl, err := handler.ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if clock.Location == nil {
		clock.Location = cfg.Location
	}

	storage, err := upload.NewStorage(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload storage: %w", err)
	}
	var extractor *upload.Extractor
	if cfg.CVExtractionURL != "" {
		extractor = upload.NewExtractor(upload.ExtractConfig{
			URL:     cfg.CVExtractionURL,
			Timeout: cfg.ExtractionTimeout,
		})
	}

	feed := livefeed.New(logger.With("component", "livefeed"))
	svc := scheduler.NewService(store.NewMeetingStore(db), feed, logger.With("component", "scheduler"))

	return &Server{
		db:             db,
		feed:           feed,
		scheduleH:      handler.NewScheduleHandler(svc, tmpl, clock, logger.With("component", "schedule")),
		meetingH:       handler.NewMeetingHandler(svc, clock, logger.With("component", "meeting_api")),
		feedH:          handler.NewFeedHandler(svc, clock, cfg.BaseDomain, logger.With("component", "feed")),
		uploadH:        handler.NewUploadHandler(store.NewUploadStore(db), storage, extractor, feed, tmpl, logger.With("component", "upload")),
		draftH:         handler.NewDraftHandler(store.NewDraftStore(db), tmpl, logger.With("component", "draft")),
		uploadLimiter:  middleware.NewLimiter(cfg.UploadLimit, cfg.UploadWindow),
		originPatterns: cfg.OriginPatterns,
		trustProxy:     cfg.TrustProxy,
		logger:         logger,
	}, nil
}

// UploadLimiter is exposed for the periodic prune in main.
func (s *Server) UploadLimiter() *middleware.Limiter {
	return s.uploadLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/schedule", http.StatusFound)
	})

	// Scheduler pages
	mux.HandleFunc("GET /schedule", s.scheduleH.Page)
	mux.HandleFunc("POST /schedule", s.scheduleH.Submit)
	mux.HandleFunc("GET /schedule/meetings/{id}", s.scheduleH.Detail)
	mux.HandleFunc("POST /schedule/meetings/{id}/delete", s.scheduleH.Delete)
	mux.HandleFunc("GET /day", s.scheduleH.Day)

	// Meeting API
	mux.HandleFunc("GET /api/meetings", s.meetingH.List)
	mux.HandleFunc("POST /api/meetings", s.meetingH.Create)
	mux.HandleFunc("GET /api/meetings/upcoming", s.meetingH.Upcoming)
	mux.HandleFunc("GET /api/meetings/{id}", s.meetingH.Get)
	mux.HandleFunc("PUT /api/meetings/{id}", s.meetingH.Update)
	mux.HandleFunc("DELETE /api/meetings/{id}", s.meetingH.Delete)
	mux.HandleFunc("GET /api/calendar", s.meetingH.Calendar)
	mux.HandleFunc("GET /meetings.ics", s.feedH.ICS)

	// CV upload
	mux.HandleFunc("GET /profile", s.uploadH.ProfilePage)
	mux.HandleFunc("GET /uploads/{id}", s.uploadH.Download)
	mux.Handle("POST /upload_cv", middleware.PerClient(s.uploadLimiter, s.trustProxy)(http.HandlerFunc(s.uploadH.Upload)))

	// Answers and drafts
	mux.HandleFunc("GET /questions/{question_id}", s.draftH.AnswerPage)
	mux.HandleFunc("POST /questions/{question_id}/draft", s.draftH.SaveDraftForm)
	mux.HandleFunc("POST /questions/{question_id}/answer", s.draftH.SubmitAnswer)
	mux.HandleFunc("GET /api/drafts/{question_id}", s.draftH.Get)
	mux.HandleFunc("PUT /api/drafts/{question_id}", s.draftH.Put)
	mux.HandleFunc("DELETE /api/drafts/{question_id}", s.draftH.Delete)

	mux.HandleFunc("GET /ws", s.feed.Handler(s.originPatterns))

	httpLogger := s.logger.With("component", "http")
	return middleware.RequestLogger(httpLogger, s.trustProxy)(middleware.Recover(httpLogger)(mux))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status":      status,
		"subscribers": s.feed.Subscribers(),
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}
