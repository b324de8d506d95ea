package geo

import "math"

// Point is a position in projected meters (or sheet millimeters for layout
// geometry; the two spaces never mix inside one calculation).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// RectFromCenter builds a rect of the given width and height around a center.
func RectFromCenter(c Point, w, h float64) Rect {
	return Rect{MinX: c.X - w/2, MinY: c.Y - h/2, MaxX: c.X + w/2, MaxY: c.Y + h/2}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Area returns the rectangle's area.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Intersects reports whether two rectangles overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && r.MaxX > o.MinX && r.MinY < o.MaxY && r.MaxY > o.MinY
}

// IntersectionArea returns the overlap area, zero when disjoint.
func (r Rect) IntersectionArea(o Rect) float64 {
	w := math.Min(r.MaxX, o.MaxX) - math.Max(r.MinX, o.MinX)
	h := math.Min(r.MaxY, o.MaxY) - math.Max(r.MinY, o.MinY)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Expand grows the rectangle by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{MinX: r.MinX - m, MinY: r.MinY - m, MaxX: r.MaxX + m, MaxY: r.MaxY + m}
}

// Polygon is a closed ring of vertices. The closing edge from the last
// vertex back to the first is implicit.
type Polygon []Point

// SignedArea returns the shoelace area: positive for counterclockwise
// winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	sum := 0.0
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return sum / 2
}

// Area returns the absolute polygon area.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Centroid returns the area centroid. Degenerate polygons fall back to the
// vertex mean.
func (p Polygon) Centroid() Point {
	a := p.SignedArea()
	if len(p) == 0 {
		return Point{}
	}
	if math.Abs(a) < 1e-12 {
		var c Point
		for _, v := range p {
			c.X += v.X
			c.Y += v.Y
		}
		c.X /= float64(len(p))
		c.Y /= float64(len(p))
		return c
	}
	var cx, cy float64
	for i := range p {
		j := (i + 1) % len(p)
		cross := p[i].X*p[j].Y - p[j].X*p[i].Y
		cx += (p[i].X + p[j].X) * cross
		cy += (p[i].Y + p[j].Y) * cross
	}
	return Point{X: cx / (6 * a), Y: cy / (6 * a)}
}

// Bounds returns the polygon's axis-aligned bounding rectangle.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{MinX: p[0].X, MinY: p[0].Y, MaxX: p[0].X, MaxY: p[0].Y}
	for _, v := range p[1:] {
		r.MinX = math.Min(r.MinX, v.X)
		r.MinY = math.Min(r.MinY, v.Y)
		r.MaxX = math.Max(r.MaxX, v.X)
		r.MaxY = math.Max(r.MaxY, v.Y)
	}
	return r
}

// ContainsPoint reports whether the point is inside the polygon using the
// even-odd rule.
func (p Polygon) ContainsPoint(pt Point) bool {
	inside := false
	for i := range p {
		j := (i + len(p) - 1) % len(p)
		if (p[i].Y > pt.Y) != (p[j].Y > pt.Y) {
			xCross := (p[j].X-p[i].X)*(pt.Y-p[i].Y)/(p[j].Y-p[i].Y) + p[i].X
			if pt.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// ClipConvex intersects the polygon with a convex clip window using
// Sutherland-Hodgman. The clip window may wind either way. A polygon that
// already lies entirely inside the window is returned unchanged, which makes
// repeated clipping idempotent.
func (p Polygon) ClipConvex(window Polygon) Polygon {
	if len(p) < 3 || len(window) < 3 {
		return nil
	}
	// Normalize the window to counterclockwise so inside is always to the
	// left of each directed edge.
	w := window
	if w.SignedArea() < 0 {
		w = make(Polygon, len(window))
		for i, v := range window {
			w[len(window)-1-i] = v
		}
	}

	out := p
	for i := range w {
		if len(out) == 0 {
			return nil
		}
		a, b := w[i], w[(i+1)%len(w)]
		out = clipAgainstEdge(out, a, b)
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

func clipAgainstEdge(subject Polygon, a, b Point) Polygon {
	edgeLen := math.Hypot(b.X-a.X, b.Y-a.Y)
	inside := func(p Point) bool {
		// Points within float noise of the edge count as inside, so a
		// fragment produced by a previous clip survives re-clipping intact.
		tol := 1e-9 * edgeLen * (math.Abs(p.X) + math.Abs(p.Y) + math.Abs(a.X) + math.Abs(a.Y) + 1)
		return (b.X-a.X)*(p.Y-a.Y)-(b.Y-a.Y)*(p.X-a.X) >= -tol
	}
	intersect := func(p, q Point) Point {
		// Line a-b against segment p-q.
		a1 := b.Y - a.Y
		b1 := a.X - b.X
		c1 := a1*a.X + b1*a.Y
		a2 := q.Y - p.Y
		b2 := p.X - q.X
		c2 := a2*p.X + b2*p.Y
		det := a1*b2 - a2*b1
		if det == 0 {
			return p
		}
		return Point{X: (b2*c1 - b1*c2) / det, Y: (a1*c2 - a2*c1) / det}
	}

	allInside := true
	for _, v := range subject {
		if !inside(v) {
			allInside = false
			break
		}
	}
	if allInside {
		return subject
	}

	var out Polygon
	for i := range subject {
		cur := subject[i]
		prev := subject[(i+len(subject)-1)%len(subject)]
		curIn, prevIn := inside(cur), inside(prev)
		switch {
		case curIn && prevIn:
			out = append(out, cur)
		case curIn && !prevIn:
			out = append(out, intersect(prev, cur), cur)
		case !curIn && prevIn:
			out = append(out, intersect(prev, cur))
		}
	}
	return out
}
