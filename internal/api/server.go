// Package api exposes the analyzer over HTTP: submit a pose capture, list
// and fetch stored runs, and render charts for one run.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hooplab/shotform/internal/analysis"
	"github.com/hooplab/shotform/internal/charts"
	"github.com/hooplab/shotform/internal/monitoring"
	"github.com/hooplab/shotform/internal/pose"
	"github.com/hooplab/shotform/internal/store"
)

type Server struct {
	analyzer *analysis.Analyzer
	store    *store.Store
}

func NewServer(analyzer *analysis.Analyzer, st *store.Store) *Server {
	return &Server{analyzer: analyzer, store: st}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf("[%d] %s %s %vms",
			lrw.statusCode, r.Method, r.RequestURI,
			float64(time.Since(start).Nanoseconds())/1e6)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.analyze)
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/api/runs/", s.runByID)
	mux.HandleFunc("/healthz", s.health)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("api: write response: %v", err)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// analyze accepts a JSONL pose capture as the request body. Query params:
//   - fps (required, positive float)
//   - shooting (optional, "left" or "right"; default right)
//   - save (optional, "false" to skip persisting the run)
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	fps, err := strconv.ParseFloat(r.URL.Query().Get("fps"), 64)
	if err != nil || fps <= 0 {
		s.writeJSONError(w, http.StatusBadRequest, "invalid 'fps' parameter")
		return
	}
	shooting := pose.SideRight
	switch r.URL.Query().Get("shooting") {
	case "", "right":
	case "left":
		shooting = pose.SideLeft
	default:
		s.writeJSONError(w, http.StatusBadRequest, "invalid 'shooting' parameter")
		return
	}

	frames, err := pose.ReadJSONL(r.Body)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("parse capture: %v", err))
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), analysis.Input{
		Frames:   frames,
		FPS:      fps,
		Shooting: shooting,
	})
	if errors.Is(err, analysis.ErrInsufficientPoseDetection) {
		s.writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("analyze: %v", err))
		return
	}

	if s.store != nil && r.URL.Query().Get("save") != "false" {
		if err := s.store.SaveReport(r.Context(), report); err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("save run: %v", err))
			return
		}
	}
	s.writeJSON(w, report)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no run store configured")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("list runs: %v", err))
		return
	}
	if runs == nil {
		runs = []store.RunSummary{}
	}
	s.writeJSON(w, runs)
}

// runByID dispatches /api/runs/{id} and /api/runs/{id}/charts/{kind}.
func (s *Server) runByID(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no run store configured")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.showRun(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.deleteRun(w, r, id)
	case len(parts) == 3 && parts[1] == "charts" && r.Method == http.MethodGet:
		s.runChart(w, r, id, parts[2])
	default:
		s.writeJSONError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) showRun(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	report, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		s.writeJSONError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("fetch run: %v", err))
		return
	}
	s.writeJSON(w, report)
}

func (s *Server) deleteRun(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	err := s.store.DeleteRun(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		s.writeJSONError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("delete run: %v", err))
		return
	}
	s.writeJSON(w, map[string]string{"status": "deleted"})
}

func (s *Server) runChart(w http.ResponseWriter, r *http.Request, id uuid.UUID, kind string) {
	report, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		s.writeJSONError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("fetch run: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	switch kind {
	case "severity":
		err = charts.SeverityHTML(report, w)
	case "fluidity":
		err = charts.FluidityHTML(report, w)
	default:
		s.writeJSONError(w, http.StatusNotFound, "unknown chart kind")
		return
	}
	if err != nil {
		monitoring.Logf("api: render %s chart for %s: %v", kind, id, err)
	}
}
