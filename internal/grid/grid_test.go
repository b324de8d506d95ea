package grid

import (
	"math"
	"testing"

	"cartograph/internal/geo"
)

var normandy = geo.BoundingBox{MinLon: -1.80, MinLat: 48.80, MaxLon: 0.50, MaxLat: 49.80}

func buildNormandy(t *testing.T, hexKm float64) *Grid {
	t.Helper()
	g, err := Build(geo.NewFrame(normandy), hexKm)
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}
	return g
}

func TestGoldenGrid(t *testing.T) {
	g := buildNormandy(t, 5.0)
	if g.Count() != 333 {
		t.Fatalf("hex count = %d, expected golden 333", g.Count())
	}
	if g.Cols() != 23 || g.Rows() != 15 {
		t.Fatalf("grid dims = %dx%d, expected 23x15", g.Cols(), g.Rows())
	}
}

func TestGridDeterministic(t *testing.T) {
	a := buildNormandy(t, 5.0)
	b := buildNormandy(t, 5.0)

	if a.Count() != b.Count() {
		t.Fatalf("rebuild changed hex count: %d vs %d", a.Count(), b.Count())
	}
	for i, ha := range a.Hexes {
		hb := b.Hexes[i]
		if ha.ID != hb.ID {
			t.Fatalf("hex %d: ID %q vs %q", i, ha.ID, hb.ID)
		}
		if ha.Center != hb.Center {
			t.Fatalf("hex %s: center %v vs %v", ha.ID, ha.Center, hb.Center)
		}
		for v := range ha.Vertices {
			if ha.Vertices[v] != hb.Vertices[v] {
				t.Fatalf("hex %s: vertex %d differs", ha.ID, v)
			}
		}
	}
}

func TestHexIDFormat(t *testing.T) {
	g := buildNormandy(t, 5.0)
	for _, h := range g.Hexes {
		if len(h.ID) != 4 {
			t.Fatalf("hex ID %q not 4 digits for a 23x15 grid", h.ID)
		}
	}
	if g.ByID(g.Hexes[0].ID) != g.Hexes[0] {
		t.Fatal("ByID lookup failed")
	}
}

func TestHexGeometry(t *testing.T) {
	g := buildNormandy(t, 5.0)
	wantArea := 3 * math.Sqrt(3) / 2 * g.RadiusM * g.RadiusM

	for _, h := range g.Hexes {
		if len(h.Vertices) != 6 {
			t.Fatalf("hex %s has %d vertices", h.ID, len(h.Vertices))
		}
		// Clockwise winding: negative signed area.
		if sa := h.Vertices.SignedArea(); sa >= 0 {
			t.Fatalf("hex %s not clockwise (signed area %f)", h.ID, sa)
		}
		if a := h.Vertices.Area(); math.Abs(a-wantArea)/wantArea > 1e-9 {
			t.Fatalf("hex %s area %f, expected %f", h.ID, a, wantArea)
		}
		c := h.Vertices.Centroid()
		if math.Abs(c.X-h.Center.X) > 1e-6 || math.Abs(c.Y-h.Center.Y) > 1e-6 {
			t.Fatalf("hex %s centroid %v differs from center %v", h.ID, c, h.Center)
		}
	}
}

// Hex polygons must tile the covering area: a dense point sample inside the
// bbox falls inside exactly one hex (points on shared edges excepted by
// jittering the sample off the lattice).
func TestGridTilesBBox(t *testing.T) {
	g := buildNormandy(t, 5.0)
	b := g.Frame.Bounds()

	const n = 40
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p := geo.Point{
				X: b.MinX + (float64(i)+0.503)/n*b.Width(),
				Y: b.MinY + (float64(j)+0.497)/n*b.Height(),
			}
			containing := 0
			for _, h := range g.Hexes {
				if h.Vertices.ContainsPoint(p) {
					containing++
				}
			}
			if containing != 1 {
				t.Fatalf("point %v inside %d hexes, expected exactly 1", p, containing)
			}
		}
	}
}

func TestTinyBBoxSingleHex(t *testing.T) {
	tiny := geo.FromCenter(49.0, -0.5, 1.0, 1.0)
	g, err := Build(geo.NewFrame(tiny), 50.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if g.Count() < 1 {
		t.Fatal("sub-hex bbox must still yield at least one hex")
	}
}

func TestInvalidHexSize(t *testing.T) {
	if _, err := Build(geo.NewFrame(normandy), 0); err == nil {
		t.Fatal("zero hex size accepted")
	}
	if _, err := Build(geo.NewFrame(normandy), -3); err == nil {
		t.Fatal("negative hex size accepted")
	}
}

func TestNeighbors(t *testing.T) {
	g := buildNormandy(t, 5.0)

	// An interior hex has six neighbors, all one pitch away.
	var interior *Hex
	for _, h := range g.Hexes {
		if ns := g.Neighbors(h); len(ns) == 6 {
			interior = h
			break
		}
	}
	if interior == nil {
		t.Fatal("no interior hex found")
	}
	want := g.RadiusM * math.Sqrt(3)
	for _, n := range g.Neighbors(interior) {
		d := g.CenterDistanceM(interior, n)
		if math.Abs(d-want)/want > 1e-9 {
			t.Fatalf("neighbor distance %f, expected %f", d, want)
		}
	}
}

func TestReadabilityBands(t *testing.T) {
	cases := []struct {
		px   float64
		want Readability
	}{
		{10, ReadTooSmall},
		{39.9, ReadTooSmall},
		{40, ReadAcceptable},
		{79.9, ReadAcceptable},
		{80, ReadGood},
		{119.9, ReadGood},
		{120, ReadIdeal},
		{400, ReadIdeal},
	}
	for _, c := range cases {
		if got := ClassifyReadability(c.px); got != c.want {
			t.Errorf("ClassifyReadability(%g) = %s, expected %s", c.px, got, c.want)
		}
	}
}

func TestFlatToFlatPx(t *testing.T) {
	g := buildNormandy(t, 5.0)
	px := g.FlatToFlatPx(860, 150) // 34in sheet at 150 dpi
	if px <= 0 {
		t.Fatalf("flat-to-flat px = %f", px)
	}
	// Doubling resolution doubles pixel size.
	if px2 := g.FlatToFlatPx(860, 300); math.Abs(px2-2*px) > 1e-6 {
		t.Fatalf("px at 300 dpi = %f, expected %f", px2, 2*px)
	}
}
