// Package server exposes completed runs over HTTP for preview tooling.
// Every endpoint is read-only; generation happens in the CLI, never here.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cartograph/internal/export"
	"cartograph/internal/pipeline"
	"cartograph/internal/render"
)

// Server serves stored runs and, when set, the most recent in-memory scene.
type Server struct {
	DB     *export.DB
	Latest *pipeline.Result
	Port   int
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/styles", s.handleStyles)
	r.Get("/api/v1/runs", s.handleRuns)
	r.Get("/api/v1/run/{runID}", s.handleRun)
	r.Get("/api/v1/run/{runID}/hexes", s.handleRunHexes)
	r.Get("/api/v1/run/{runID}/census", s.handleRunCensus)
	r.Get("/api/v1/scene", s.handleScene)
	r.Get("/api/v1/report", s.handleReport)

	return r
}

// Start blocks serving HTTP until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	slog.Info("preview server listening", "addr", addr)
	return srv.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"service":    "cartograph",
		"has_latest": s.Latest != nil,
	}
	if s.DB != nil {
		runs, err := s.DB.RecentRuns(1)
		if err == nil && len(runs) > 0 {
			status["last_run"] = runs[0]
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"styles": render.StyleNames()})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "no run database attached")
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be 1-500")
			return
		}
		limit = n
	}
	runs, err := s.DB.RecentRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "no run database attached")
		return
	}
	row, err := s.DB.Run(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleRunHexes(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "no run database attached")
		return
	}
	hexes, err := s.DB.RunHexes(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(hexes) == 0 {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hexes": hexes})
}

func (s *Server) handleRunCensus(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "no run database attached")
		return
	}
	census, err := s.DB.TerrainCensus(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(census) == 0 {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"census": census})
}

var errNoScene = errors.New("no scene generated this session")

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if s.Latest == nil {
		writeError(w, http.StatusNotFound, errNoScene.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.Latest.Scene)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.Latest == nil {
		writeError(w, http.StatusNotFound, errNoScene.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.Latest.Report)
}
