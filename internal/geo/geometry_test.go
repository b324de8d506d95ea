package geo

import (
	"math"
	"testing"
)

func TestBBoxValidate(t *testing.T) {
	good := BoundingBox{MinLon: -1.8, MinLat: 48.8, MaxLon: 0.5, MaxLat: 49.8}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid bbox rejected: %v", err)
	}

	bad := []BoundingBox{
		{MinLon: 1, MinLat: 0, MaxLon: 1, MaxLat: 1},
		{MinLon: 0, MinLat: 2, MaxLon: 1, MaxLat: 1},
		{MinLon: 0, MinLat: -95, MaxLon: 1, MaxLat: 1},
	}
	for i, b := range bad {
		if err := b.Validate(); err == nil {
			t.Errorf("bbox %d accepted, expected error", i)
		}
	}
}

func TestFrameRoundTrip(t *testing.T) {
	bbox := BoundingBox{MinLon: -1.8, MinLat: 48.8, MaxLon: 0.5, MaxLat: 49.8}
	f := NewFrame(bbox)

	lon, lat := -0.37, 49.19
	p := f.Project(lon, lat)
	gotLon, gotLat := f.Unproject(p)
	if math.Abs(gotLon-lon) > 1e-9 || math.Abs(gotLat-lat) > 1e-9 {
		t.Fatalf("round trip drifted: (%f, %f) -> (%f, %f)", lon, lat, gotLon, gotLat)
	}

	// Center of the bbox projects to the origin.
	cLat, cLon := bbox.Center()
	origin := f.Project(cLon, cLat)
	if math.Abs(origin.X) > 1e-9 || math.Abs(origin.Y) > 1e-9 {
		t.Fatalf("bbox center projected to %v, expected origin", origin)
	}
}

func TestPolygonAreaCentroid(t *testing.T) {
	square := Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := square.Area(); math.Abs(got-100) > 1e-9 {
		t.Fatalf("square area = %f, expected 100", got)
	}
	c := square.Centroid()
	if math.Abs(c.X-5) > 1e-9 || math.Abs(c.Y-5) > 1e-9 {
		t.Fatalf("square centroid = %v, expected (5,5)", c)
	}

	// Clockwise winding must give the same absolute area.
	cw := Polygon{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	if got := cw.Area(); math.Abs(got-100) > 1e-9 {
		t.Fatalf("clockwise square area = %f, expected 100", got)
	}
}

func TestClipConvexPartialOverlap(t *testing.T) {
	subject := Polygon{{-5, 2}, {5, 2}, {5, 8}, {-5, 8}}
	window := Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	clipped := subject.ClipConvex(window)
	if clipped == nil {
		t.Fatal("expected non-empty intersection")
	}
	if got := clipped.Area(); math.Abs(got-30) > 1e-9 {
		t.Fatalf("clipped area = %f, expected 30", got)
	}
}

func TestClipConvexDisjoint(t *testing.T) {
	subject := Polygon{{20, 20}, {30, 20}, {30, 30}, {20, 30}}
	window := Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := subject.ClipConvex(window); got != nil {
		t.Fatalf("disjoint clip returned %v, expected nil", got)
	}
}

func TestClipConvexIdempotent(t *testing.T) {
	subject := Polygon{{-5, -5}, {15, -5}, {15, 15}, {-5, 15}}
	window := Polygon{{0, 0}, {12, 0}, {12, 12}, {0, 12}}

	once := subject.ClipConvex(window)
	twice := once.ClipConvex(window)
	if len(once) != len(twice) {
		t.Fatalf("re-clipping changed vertex count: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if math.Abs(once[i].X-twice[i].X) > 1e-9 || math.Abs(once[i].Y-twice[i].Y) > 1e-9 {
			t.Fatalf("re-clipping moved vertex %d: %v vs %v", i, once[i], twice[i])
		}
	}
}

func TestClipConvexClockwiseWindow(t *testing.T) {
	subject := Polygon{{-5, 2}, {5, 2}, {5, 8}, {-5, 8}}
	window := Polygon{{0, 0}, {0, 10}, {10, 10}, {10, 0}} // clockwise
	clipped := subject.ClipConvex(window)
	if clipped == nil || math.Abs(clipped.Area()-30) > 1e-9 {
		t.Fatalf("clockwise window clip area = %v, expected 30", clipped.Area())
	}
}

func TestRectIntersection(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	b := Rect{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15}
	if !a.Intersects(b) {
		t.Fatal("expected overlap")
	}
	if got := a.IntersectionArea(b); math.Abs(got-25) > 1e-9 {
		t.Fatalf("intersection area = %f, expected 25", got)
	}
	c := Rect{MinX: 10, MinY: 0, MaxX: 20, MaxY: 10}
	if a.Intersects(c) {
		t.Fatal("touching rects must not count as overlapping")
	}
}

func TestContainsPoint(t *testing.T) {
	hexish := Polygon{{2, 0}, {1, 1.8}, {-1, 1.8}, {-2, 0}, {-1, -1.8}, {1, -1.8}}
	if !hexish.ContainsPoint(Point{0, 0}) {
		t.Fatal("center should be inside")
	}
	if hexish.ContainsPoint(Point{5, 5}) {
		t.Fatal("far point should be outside")
	}
}
