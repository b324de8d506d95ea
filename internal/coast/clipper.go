// Package coast intersects real water geometry against hex boundaries.
// The result is per-hex clipped water shapes used for fill shaping, plus
// coverage evidence the terrain classifier consults for the Water/Coastal
// decision. The clipper never assigns terrain itself.
package coast

import (
	"cartograph/internal/geo"
	"cartograph/internal/grid"
	"cartograph/internal/report"
)

// DefaultAreaEpsilonFrac is the sliver threshold as a fraction of hex area.
// Near-tangent intersections produce fragments below it; they are dropped
// to avoid rendering artifacts and counted in the run report.
const DefaultAreaEpsilonFrac = 1e-4

// Clipped holds the water fragments inside one hex boundary. Fragments may
// be empty for land hexes.
type Clipped struct {
	HexID     string        `json:"hex_id"`
	Fragments []geo.Polygon `json:"fragments,omitempty"`
	WaterArea float64       `json:"water_area"`
}

// Result is the clip output for a whole grid.
type Result struct {
	ByHex   map[string]*Clipped
	hexArea float64
}

// Clipper intersects water polygons (projected coordinates) with hex cells.
type Clipper struct {
	Water       []geo.Polygon
	AreaEpsilon float64 // absolute m²; derived from hex area when zero
}

// NewClipper builds a clipper over projected water polygons.
func NewClipper(water []geo.Polygon) *Clipper {
	return &Clipper{Water: water}
}

// Clip computes per-hex water geometry for every hex in the grid. Sliver
// fragments below the area epsilon are dropped silently and counted.
func (c *Clipper) Clip(g *grid.Grid, rep *report.Report) *Result {
	hexArea := 0.0
	if g.Count() > 0 {
		hexArea = g.Hexes[0].Vertices.Area()
	}
	eps := c.AreaEpsilon
	if eps <= 0 {
		eps = hexArea * DefaultAreaEpsilonFrac
	}

	res := &Result{ByHex: make(map[string]*Clipped, g.Count()), hexArea: hexArea}

	// Bounding boxes let most hex/polygon pairs be rejected cheaply.
	bounds := make([]geo.Rect, len(c.Water))
	for i, w := range c.Water {
		bounds[i] = w.Bounds()
	}

	for _, h := range g.Hexes {
		clipped := &Clipped{HexID: h.ID}
		hexBounds := h.Vertices.Bounds()

		for i, w := range c.Water {
			if !hexBounds.Intersects(bounds[i]) {
				continue
			}
			frag := w.ClipConvex(h.Vertices)
			if frag == nil {
				continue
			}
			area := frag.Area()
			if area < eps {
				if rep != nil {
					rep.CountSliver()
				}
				continue
			}
			clipped.Fragments = append(clipped.Fragments, frag)
			clipped.WaterArea += area
		}
		// Water polygons may overlap each other; coverage cannot exceed
		// the hex itself.
		if clipped.WaterArea > hexArea {
			clipped.WaterArea = hexArea
		}
		res.ByHex[h.ID] = clipped
	}
	return res
}

// WaterFraction returns the fraction of a hex covered by water, in [0, 1].
// It satisfies the terrain.WaterEvidence interface.
func (r *Result) WaterFraction(hexID string) float64 {
	if r == nil || r.hexArea <= 0 {
		return 0
	}
	c := r.ByHex[hexID]
	if c == nil {
		return 0
	}
	return c.WaterArea / r.hexArea
}

// Fragments returns the clipped water shapes for a hex, nil when dry.
func (r *Result) Fragments(hexID string) []geo.Polygon {
	if r == nil {
		return nil
	}
	if c := r.ByHex[hexID]; c != nil {
		return c.Fragments
	}
	return nil
}
