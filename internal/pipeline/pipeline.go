// Package pipeline runs a full map generation: grid, terrain, coastline,
// layout, and the render compositor, in that order. It is the only package
// that sees every stage; the stages never import each other's neighbors.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"cartograph/internal/coast"
	"cartograph/internal/geo"
	"cartograph/internal/grid"
	"cartograph/internal/layout"
	"cartograph/internal/render"
	"cartograph/internal/report"
	"cartograph/internal/spec"
	"cartograph/internal/terrain"
)

// WaterBody is a water polygon in lon/lat degrees. Polygons must be convex
// per clip window, so collaborators pre-split complex shorelines.
type WaterBody struct {
	Name string      `json:"name,omitempty"`
	Ring geo.Polygon `json:"ring"` // X=lon, Y=lat
}

// Line is a geographic line feature in lon/lat degrees.
type Line struct {
	Name       string      `json:"name,omitempty"`
	Kind       string      `json:"kind"`
	Importance int         `json:"importance"`
	Path       []geo.Point `json:"path"` // X=lon, Y=lat
}

// Place is a geographic settlement.
type Place struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Lon        float64 `json:"lon"`
	Lat        float64 `json:"lat"`
	Population int     `json:"population"`
	Port       bool    `json:"port,omitempty"`
}

// Inputs is the external data a run consumes. Every field is optional; the
// pipeline degrades per the fallback rules rather than failing.
type Inputs struct {
	Elevation terrain.ElevationProvider
	Land      *terrain.LandUse
	Water     []WaterBody
	Lines     []Line
	Places    []Place
}

// Result is everything a completed run produced.
type Result struct {
	Spec        *spec.MapSpec
	Grid        *grid.Grid
	Terrain     map[string]terrain.Assignment
	Coast       *coast.Result
	Layout      *layout.Set
	Sheets      []*layout.Set
	Scene       *render.Scene
	Readability grid.Readability
	Report      *report.Report
	Elapsed     time.Duration
}

// Run executes the whole pipeline for a validated spec.
func Run(s *spec.MapSpec, in Inputs, log *slog.Logger) (*Result, error) {
	start := time.Now()
	if log == nil {
		log = slog.Default()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	rep := report.New()

	frame := geo.NewFrame(s.BBox)
	g, err := grid.Build(frame, s.HexSizeKm)
	if err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}
	log.Info("grid built", "hexes", g.Count(), "cols", g.Cols(), "rows", g.Rows())

	sheet, err := s.Sheet()
	if err != nil {
		return nil, err
	}
	set, err := layout.Partition(sheet, s.LayoutOptions(), rep)
	if err != nil {
		return nil, fmt.Errorf("partition sheet: %w", err)
	}
	mapRect := set.Map().Rect

	readability := grid.ClassifyReadability(g.FlatToFlatPx(mapRect.Width(), s.DPI))
	if readability == grid.ReadTooSmall {
		rep.Warn(report.WarnReadability,
			"hexes render below 40 px flat to flat, decorations suppressed")
	}
	log.Info("layout partitioned",
		"sheet_mm", fmt.Sprintf("%.0fx%.0f", sheet.WidthMM, sheet.HeightMM),
		"readability", readability.String())

	// Water polygons are clipped in projected meters.
	var waterPolys []geo.Polygon
	for _, wb := range in.Water {
		if len(wb.Ring) < 3 {
			rep.WarnElement(report.WarnGeometryDegeneracy, "", wb.Name,
				"water ring has %d vertices, skipped", len(wb.Ring))
			continue
		}
		poly := make(geo.Polygon, len(wb.Ring))
		for i, v := range wb.Ring {
			poly[i] = frame.Project(v.X, v.Y)
		}
		waterPolys = append(waterPolys, poly)
	}
	coastRes := coast.NewClipper(waterPolys).Clip(g, rep)

	elev := in.Elevation
	if elev == nil && s.SyntheticRelief {
		elev = terrain.NewSyntheticElevation(s.Seed)
	}
	sampler := terrain.NewSampler(elev, in.Land, s.Seed)
	assignments := sampler.ClassifyGrid(g, coastRes, rep)
	log.Info("terrain classified", "hexes", len(assignments), "synthetic", rep.SyntheticHexes)

	ctx := &render.Context{
		Spec:        s,
		Grid:        g,
		Terrain:     assignments,
		Coast:       coastRes,
		Lines:       projectLines(frame, in.Lines),
		Settlements: projectPlaces(frame, in.Places),
		Layout:      set,
		Transform:   render.NewTransform(g.Bounds(), mapRect),
		Readability: readability,
		Occupied:    s.OccupiedHexes(),
		Scene:       &render.Scene{},
		Rep:         rep,
	}
	style, err := render.StyleByName(s.DesignerStyle)
	if err != nil {
		return nil, err
	}
	ctx.Style = style.Scaled(s.FontScale)

	if err := render.Compose(ctx); err != nil {
		return nil, err
	}

	sheets, err := layout.Tile(set, s.Sheets)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Spec:        s,
		Grid:        g,
		Terrain:     assignments,
		Coast:       coastRes,
		Layout:      set,
		Sheets:      sheets,
		Scene:       ctx.Scene,
		Readability: readability,
		Report:      rep,
		Elapsed:     time.Since(start),
	}
	log.Info("scene composed",
		"elements", len(ctx.Scene.Elements),
		"warnings", len(rep.Warnings),
		"elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

func projectLines(frame *geo.Frame, lines []Line) []render.LineFeature {
	out := make([]render.LineFeature, 0, len(lines))
	for _, l := range lines {
		path := make([]geo.Point, len(l.Path))
		for i, v := range l.Path {
			path[i] = frame.Project(v.X, v.Y)
		}
		out = append(out, render.LineFeature{
			Name: l.Name, Kind: l.Kind, Importance: l.Importance, Path: path,
		})
	}
	return out
}

func projectPlaces(frame *geo.Frame, places []Place) []render.Settlement {
	out := make([]render.Settlement, 0, len(places))
	for _, p := range places {
		out = append(out, render.Settlement{
			Name: p.Name, Kind: p.Kind,
			Point:      frame.Project(p.Lon, p.Lat),
			Population: p.Population,
			Port:       p.Port,
		})
	}
	return out
}
