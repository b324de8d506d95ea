package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"cartograph/internal/export"
	"cartograph/internal/geo"
	"cartograph/internal/pipeline"
	"cartograph/internal/spec"
)

func seededServer(t *testing.T) (*Server, *pipeline.Result) {
	t.Helper()
	s := spec.Default()
	s.Name = "fixture"
	s.BBox = geo.FromCenter(49.0, 0.0, 30, 30)
	s.HexSizeKm = 4
	s.SyntheticRelief = true
	res, err := pipeline.Run(&s, pipeline.Inputs{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}

	db, err := export.OpenDB(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.SaveRun(res); err != nil {
		t.Fatal(err)
	}
	return &Server{DB: db, Latest: res}, res
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := seededServer(t)
	rec := get(t, srv.Router(), "/api/v1/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["has_latest"] != true {
		t.Fatalf("expected has_latest, got %v", body)
	}
}

func TestRunEndpoints(t *testing.T) {
	srv, res := seededServer(t)
	router := srv.Router()

	rec := get(t, router, "/api/v1/runs")
	if rec.Code != http.StatusOK {
		t.Fatalf("runs status %d", rec.Code)
	}

	rec = get(t, router, "/api/v1/run/"+res.Report.RunID)
	if rec.Code != http.StatusOK {
		t.Fatalf("run status %d: %s", rec.Code, rec.Body.String())
	}

	rec = get(t, router, "/api/v1/run/"+res.Report.RunID+"/hexes")
	if rec.Code != http.StatusOK {
		t.Fatalf("hexes status %d", rec.Code)
	}
	var hexBody struct {
		Hexes []export.HexRow `json:"hexes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &hexBody); err != nil {
		t.Fatal(err)
	}
	if len(hexBody.Hexes) != res.Grid.Count() {
		t.Fatalf("served %d hexes, want %d", len(hexBody.Hexes), res.Grid.Count())
	}

	rec = get(t, router, "/api/v1/run/"+res.Report.RunID+"/census")
	if rec.Code != http.StatusOK {
		t.Fatalf("census status %d", rec.Code)
	}
}

func TestUnknownRun404(t *testing.T) {
	srv, _ := seededServer(t)
	rec := get(t, srv.Router(), "/api/v1/run/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBadLimitRejected(t *testing.T) {
	srv, _ := seededServer(t)
	rec := get(t, srv.Router(), "/api/v1/runs?limit=0")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSceneWithoutLatest(t *testing.T) {
	srv := &Server{}
	rec := get(t, srv.Router(), "/api/v1/scene")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSceneServed(t *testing.T) {
	srv, res := seededServer(t)
	rec := get(t, srv.Router(), "/api/v1/scene")
	if rec.Code != http.StatusOK {
		t.Fatalf("scene status %d", rec.Code)
	}
	var scene struct {
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &scene); err != nil {
		t.Fatal(err)
	}
	if len(scene.Elements) != len(res.Scene.Elements) {
		t.Fatalf("served %d elements, want %d", len(scene.Elements), len(res.Scene.Elements))
	}
}
