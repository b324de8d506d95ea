package render

import (
	"sort"

	"cartograph/internal/geo"
	"cartograph/internal/grid"
	"cartograph/internal/report"
)

// labelLayer places hex numbers and settlement names. All placement math
// happens in sheet millimeters; the layer claims each settled box so later
// candidates route around it.
type labelLayer struct{}

func (labelLayer) Name() string { return "labels" }

func (l labelLayer) Apply(ctx *Context) error {
	if ctx.Spec.ShowHexNumbers && ctx.Readability != grid.ReadTooSmall {
		l.hexNumbers(ctx)
	}
	if ctx.Spec.ShowCities {
		l.settlementNames(ctx)
	}
	return nil
}

// hexNumberCorners is the displacement preference when a counter sits on
// the default top-center slot. Fractions of flat-to-flat width.
var hexNumberCorners = [][2]float64{
	{-0.24, 0.26}, // top-left
	{0.24, 0.26},  // top-right
	{-0.24, -0.26},
	{0.24, -0.26},
}

func (labelLayer) hexNumbers(ctx *Context) {
	font := ctx.FontMM(RoleHexNumber)
	ftf := ctx.FlatToFlatMM()
	for _, h := range ctx.Grid.Hexes {
		c := ctx.Transform.Apply(h.Center)
		at := geo.Point{X: c.X, Y: c.Y + 0.30*ftf}
		f := font

		if ctx.Occupied[h.ID] {
			// A counter owns the hex center, so the number retreats to a
			// corner at reduced size with a backing patch for contrast.
			f = font * 0.8
			at = geo.Point{X: c.X + hexNumberCorners[0][0]*ftf, Y: c.Y + hexNumberCorners[0][1]*ftf}
			for _, corner := range hexNumberCorners {
				cand := geo.Point{X: c.X + corner[0]*ftf, Y: c.Y + corner[1]*ftf}
				if ctx.OverlapArea(TextBox(cand, h.ID, f)) == 0 {
					at = cand
					break
				}
			}
			box := TextBox(at, h.ID, f)
			ctx.Scene.Add(Element{
				Kind:  KindPatch,
				Space: SpaceSheet,
				Z:     ZPatch,
				HexID: h.ID,
				Poly:  rectPoly(box),
				Fill:  ctx.Style.LabelBacking,
				Alpha: 0.85,
			})
		}

		ctx.Scene.Add(Element{
			Kind:   KindText,
			Space:  SpaceSheet,
			Z:      ZLabel,
			HexID:  h.ID,
			At:     at,
			Text:   h.ID,
			Role:   RoleHexNumber,
			FontMM: f,
			Fill:   ctx.Style.LabelInk,
		})
	}
}

// compassOffsets is the candidate order for settlement labels, clockwise
// from North: N, NE, E, SE, S, SW, W, NW. Unit vectors, scaled by the
// label standoff distance.
var compassOffsets = [][2]float64{
	{0, 1},
	{0.75, 0.75},
	{1, 0},
	{0.75, -0.75},
	{0, -1},
	{-0.75, -0.75},
	{-1, 0},
	{-0.75, 0.75},
}

func (labelLayer) settlementNames(ctx *Context) {
	ranked := make([]Settlement, len(ctx.Settlements))
	copy(ranked, ctx.Settlements)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Population > ranked[j].Population
	})

	font := ctx.FontMM(RoleCityLabel)
	mapRect := ctx.Layout.Map().Rect

	// Counters own their hexes; a label landing inside one of those
	// footprints is as bad as colliding with an already-placed box.
	var occupied []geo.Rect
	for id := range ctx.Occupied {
		if h := ctx.Grid.ByID(id); h != nil {
			occupied = append(occupied, ctx.Transform.Poly(h.Vertices).Bounds())
		}
	}

	for _, s := range ranked {
		if s.Name == "" {
			continue
		}
		anchor := ctx.Transform.Apply(s.Point)
		standoff := 0.5*ctx.FlatToFlatMM()*0.4 + font*0.9

		bestAt := anchor
		bestBox := geo.Rect{}
		bestCost := -1.0
		placed := false
		for _, off := range compassOffsets {
			at := geo.Point{X: anchor.X + off[0]*standoff, Y: anchor.Y + off[1]*standoff}
			box := TextBox(at, s.Name, font)
			cost := ctx.OverlapArea(box)
			for _, fp := range occupied {
				cost += box.IntersectionArea(fp)
			}
			// Spilling off the map region costs the spilled area.
			cost += box.Area() - box.IntersectionArea(mapRect)
			if cost == 0 {
				bestAt, bestBox, bestCost = at, box, 0
				placed = true
				break
			}
			if bestCost < 0 || cost < bestCost {
				bestAt, bestBox, bestCost = at, box, cost
			}
		}

		el := Element{
			Kind:   KindText,
			Space:  SpaceSheet,
			Z:      ZLabel,
			At:     bestAt,
			Text:   s.Name,
			Role:   RoleCityLabel,
			FontMM: font,
			Fill:   ctx.Style.LabelInk,
		}
		if !placed {
			el.Degraded = true
			ctx.Rep.WarnElement(report.WarnPlacementDegraded, "", s.Name,
				"label overlaps placed content at every compass offset")
		}
		ctx.Scene.Add(el)
		ctx.Reserve(bestBox)
	}
}

func rectPoly(r geo.Rect) geo.Polygon {
	return geo.Polygon{
		{X: r.MinX, Y: r.MinY},
		{X: r.MinX, Y: r.MaxY},
		{X: r.MaxX, Y: r.MaxY},
		{X: r.MaxX, Y: r.MinY},
	}
}
