package coast

import (
	"math"
	"testing"

	"cartograph/internal/geo"
	"cartograph/internal/grid"
	"cartograph/internal/report"
)

func coastalGrid(t *testing.T) *grid.Grid {
	t.Helper()
	bbox := geo.BoundingBox{MinLon: -0.5, MinLat: 49.0, MaxLon: 0.5, MaxLat: 49.6}
	g, err := grid.Build(geo.NewFrame(bbox), 5.0)
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}
	return g
}

// seaNorthOf returns a big water polygon covering everything above y.
func seaNorthOf(g *grid.Grid, y float64) geo.Polygon {
	b := g.Bounds().Expand(20000)
	return geo.Polygon{
		{X: b.MinX, Y: y},
		{X: b.MaxX, Y: y},
		{X: b.MaxX, Y: b.MaxY},
		{X: b.MinX, Y: b.MaxY},
	}
}

func TestClipStraddlingAndExtremes(t *testing.T) {
	g := coastalGrid(t)
	coastY := g.Bounds().Center().Y
	res := NewClipper([]geo.Polygon{seaNorthOf(g, coastY)}).Clip(g, report.New())

	var allWater, allLand, straddling int
	for _, h := range g.Hexes {
		frac := res.WaterFraction(h.ID)
		switch {
		case frac > 0.999:
			allWater++
		case frac == 0:
			allLand++
		default:
			straddling++
		}
		if frac < 0 || frac > 1 {
			t.Fatalf("hex %s water fraction %f out of range", h.ID, frac)
		}
	}
	if allWater == 0 || allLand == 0 || straddling == 0 {
		t.Fatalf("expected all three regimes, got water=%d land=%d straddling=%d",
			allWater, allLand, straddling)
	}

	// Straddling hexes own partial polygons; dry hexes own none.
	for _, h := range g.Hexes {
		frags := res.Fragments(h.ID)
		frac := res.WaterFraction(h.ID)
		if frac == 0 && len(frags) != 0 {
			t.Fatalf("dry hex %s has %d fragments", h.ID, len(frags))
		}
		if frac > 0 && len(frags) == 0 {
			t.Fatalf("wet hex %s has no fragments", h.ID)
		}
	}
}

// Clipping a hex's own clipped water geometry against the same hex must
// return the same geometry.
func TestClipIdempotent(t *testing.T) {
	g := coastalGrid(t)
	coastY := g.Bounds().Center().Y + 1234.5
	res := NewClipper([]geo.Polygon{seaNorthOf(g, coastY)}).Clip(g, report.New())

	for _, h := range g.Hexes {
		for _, frag := range res.Fragments(h.ID) {
			again := frag.ClipConvex(h.Vertices)
			if len(again) != len(frag) {
				t.Fatalf("hex %s: re-clip changed vertex count %d -> %d", h.ID, len(frag), len(again))
			}
			for i := range frag {
				if math.Abs(frag[i].X-again[i].X) > 1e-6 || math.Abs(frag[i].Y-again[i].Y) > 1e-6 {
					t.Fatalf("hex %s: re-clip moved vertex %d", h.ID, i)
				}
			}
		}
	}
}

func TestSliverFiltered(t *testing.T) {
	g := coastalGrid(t)
	h := g.Hexes[0]

	// A ribbon 0.1 m tall across the hex: roughly 1e3 m2, well below
	// the default epsilon of 1e-4 of the hex area.
	b := h.Vertices.Bounds()
	sliver := geo.Polygon{
		{X: b.MinX - 100, Y: h.Center.Y},
		{X: b.MaxX + 100, Y: h.Center.Y},
		{X: b.MaxX + 100, Y: h.Center.Y + 0.1},
		{X: b.MinX - 100, Y: h.Center.Y + 0.1},
	}

	rep := report.New()
	res := NewClipper([]geo.Polygon{sliver}).Clip(g, rep)

	if got := res.WaterFraction(h.ID); got != 0 {
		t.Fatalf("sliver survived with fraction %f", got)
	}
	if rep.SliversDropped == 0 {
		t.Fatal("dropped sliver was not counted")
	}
}

func TestNoWater(t *testing.T) {
	g := coastalGrid(t)
	res := NewClipper(nil).Clip(g, report.New())
	for _, h := range g.Hexes {
		if res.WaterFraction(h.ID) != 0 {
			t.Fatalf("hex %s wet on a waterless map", h.ID)
		}
	}
}
