package export

import (
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"cartograph/internal/geo"
	"cartograph/internal/pipeline"
	"cartograph/internal/spec"
)

func testRun(t *testing.T) *pipeline.Result {
	t.Helper()
	s := spec.Default()
	s.Name = "fixture"
	s.Title = "Fixture"
	s.BBox = geo.FromCenter(49.0, 0.0, 40, 40)
	s.HexSizeKm = 4
	s.Seed = 3
	s.SyntheticRelief = true
	res, err := pipeline.Run(&s, pipeline.Inputs{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	return res
}

func TestGeoJSONRoundTrip(t *testing.T) {
	res := testRun(t)
	raw, err := GeoJSON(res)
	if err != nil {
		t.Fatal(err)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string         `json:"type"`
				Coordinates [][][2]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(raw, &fc); err != nil {
		t.Fatalf("invalid geojson: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Fatalf("type %q", fc.Type)
	}
	if len(fc.Features) != res.Grid.Count() {
		t.Fatalf("expected %d features, got %d", res.Grid.Count(), len(fc.Features))
	}
	for _, f := range fc.Features {
		ring := f.Geometry.Coordinates[0]
		if len(ring) != 7 {
			t.Fatalf("hex ring has %d vertices, want 7 closed", len(ring))
		}
		if ring[0] != ring[len(ring)-1] {
			t.Fatal("ring not closed")
		}
		if f.Properties["terrain"] == "" {
			t.Fatal("feature missing terrain property")
		}
	}
}

func TestGameDataDocument(t *testing.T) {
	res := testRun(t)
	doc := BuildGameData(res)
	if doc.HexCount != res.Grid.Count() || len(doc.Hexes) != doc.HexCount {
		t.Fatalf("hex count mismatch: %d vs %d", doc.HexCount, len(doc.Hexes))
	}
	if doc.RunID != res.Report.RunID {
		t.Fatal("run id not carried")
	}
	if len(doc.TerrainEffects) != 8 {
		t.Fatalf("expected 8 terrain effect entries, got %d", len(doc.TerrainEffects))
	}
	if _, err := GameDataJSON(res); err != nil {
		t.Fatal(err)
	}
}

func TestDBRoundTrip(t *testing.T) {
	res := testRun(t)
	db, err := OpenDB(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := db.SaveRun(res); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := db.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != res.Report.RunID {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	if runs[0].HexCount != res.Grid.Count() {
		t.Fatalf("hex count %d, want %d", runs[0].HexCount, res.Grid.Count())
	}

	hexes, err := db.RunHexes(res.Report.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(hexes) != res.Grid.Count() {
		t.Fatalf("stored %d hexes, want %d", len(hexes), res.Grid.Count())
	}

	census, err := db.TerrainCensus(res.Report.RunID)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, n := range census {
		total += n
	}
	if total != res.Grid.Count() {
		t.Fatalf("census total %d, want %d", total, res.Grid.Count())
	}
}

func TestDBSecondSaveKeepsFirst(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	a := testRun(t)
	b := testRun(t)
	if err := db.SaveRun(a); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveRun(b); err != nil {
		t.Fatal(err)
	}
	runs, err := db.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}
