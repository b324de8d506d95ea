// Command cartograph generates a wargame map from a spec file and writes
// the scene, GeoJSON, and game-data documents.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"cartograph/internal/export"
	"cartograph/internal/pipeline"
	"cartograph/internal/report"
	"cartograph/internal/spec"
	"cartograph/internal/terrain"
)

func main() {
	specPath := flag.String("spec", "", "path to the map spec JSON (required)")
	outDir := flag.String("out", "out", "output directory")
	dbPath := flag.String("db", "", "optional SQLite run database")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *specPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*specPath, *outDir, *dbPath, logger); err != nil {
		var cfg *report.ConfigurationError
		if errors.As(err, &cfg) {
			slog.Error("spec rejected", "field", cfg.Field, "reason", cfg.Reason)
		} else {
			slog.Error("generation failed", "error", err)
		}
		os.Exit(1)
	}
}

func run(specPath, outDir, dbPath string, logger *slog.Logger) error {
	s, err := spec.Load(specPath)
	if err != nil {
		return err
	}
	slog.Info("spec loaded", "name", s.Name, "style", s.DesignerStyle,
		"hex_km", s.HexSizeKm, "sheets", s.Sheets)

	var inputs pipeline.Inputs
	if s.SyntheticRelief {
		inputs.Elevation = terrain.NewSyntheticElevation(s.Seed)
	}

	res, err := pipeline.Run(s, inputs, logger)
	if err != nil {
		return err
	}

	for _, w := range res.Report.Warnings {
		slog.Warn("degradation", "kind", string(w.Kind), "hex", w.HexID, "detail", w.Message)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	sceneJSON, err := json.MarshalIndent(res.Scene, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	geoJSON, err := export.GeoJSON(res)
	if err != nil {
		return err
	}
	gameJSON, err := export.GameDataJSON(res)
	if err != nil {
		return err
	}

	files := map[string][]byte{
		"scene.json":    sceneJSON,
		"map.geojson":   geoJSON,
		"gamedata.json": gameJSON,
	}
	for name, data := range files {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		slog.Info("wrote", "file", path, "size", humanize.Bytes(uint64(len(data))))
	}

	if dbPath != "" {
		db, err := export.OpenDB(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveRun(res); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		slog.Info("run saved", "db", dbPath, "run_id", res.Report.RunID)
	}

	slog.Info("map generated",
		"hexes", humanize.Comma(int64(res.Grid.Count())),
		"grid", fmt.Sprintf("%dx%d", res.Grid.Cols(), res.Grid.Rows()),
		"elements", humanize.Comma(int64(len(res.Scene.Elements))),
		"readability", res.Readability.String(),
		"warnings", len(res.Report.Warnings),
		"synthetic_hexes", res.Report.SyntheticHexes,
		"elapsed", res.Elapsed.Round(time.Millisecond))
	return nil
}
