// Package grid builds the flat-top hex lattice covering a projected
// bounding box. Flat-top means columns run vertically, the standard
// wargame convention. Hexes carry stable wargame display numbers: CCRR
// (1-indexed column then row), widened to CCCRRR past 99 columns or rows.
package grid

import (
	"fmt"
	"math"

	"cartograph/internal/geo"
)

// Hex is one cell of the grid. Hexes are immutable once the grid is built;
// regeneration replaces the whole grid.
type Hex struct {
	ID        string      `json:"id"`
	Col       int         `json:"col"` // axial q
	Row       int         `json:"row"` // axial r
	Center    geo.Point   `json:"center"`
	CenterLon float64     `json:"center_lon"`
	CenterLat float64     `json:"center_lat"`
	Vertices  geo.Polygon `json:"vertices"` // 6 vertices, clockwise
}

// Grid is the complete ordered hex set covering a bounding box.
type Grid struct {
	Frame   *geo.Frame
	RadiusM float64 // center-to-vertex, meters
	Hexes   []*Hex  // column-major, stable order

	byID    map[string]*Hex
	byAxial map[[2]int]*Hex
	colOff  int
	rowOff  int
	cols    int
	rows    int
}

// Build generates the grid for a projected frame and hex size. The grid
// extends at least to cover the bbox; partial edge hexes are kept, never
// clipped away. A bbox smaller than one hex yields a single-hex grid.
func Build(frame *geo.Frame, hexSizeKm float64) (*Grid, error) {
	if hexSizeKm <= 0 {
		return nil, fmt.Errorf("hex size must be positive, got %g km", hexSizeKm)
	}
	r := hexSizeKm * 1000

	colSpacing := 1.5 * r
	rowSpacing := math.Sqrt(3) * r

	b := frame.Bounds()
	minX, minY := b.MinX-r, b.MinY-r
	maxX, maxY := b.MaxX+r, b.MaxY+r

	qMin := int(math.Floor(minX / colSpacing))
	qMax := int(math.Ceil(maxX / colSpacing))
	rMin := int(math.Floor(minY / rowSpacing))
	rMax := int(math.Ceil(maxY / rowSpacing))

	type center struct {
		q, row int
		p      geo.Point
	}
	var centers []center
	for q := qMin; q <= qMax; q++ {
		for row := rMin; row <= rMax; row++ {
			cx := float64(q) * colSpacing
			cy := float64(row) * rowSpacing
			// Odd columns sit half a row higher.
			if q%2 != 0 {
				cy += rowSpacing / 2
			}
			if cx >= minX && cx <= maxX && cy >= minY && cy <= maxY {
				centers = append(centers, center{q, row, geo.Point{X: cx, Y: cy}})
			}
		}
	}
	if len(centers) == 0 {
		return nil, fmt.Errorf("no hex centers inside bbox, hex size %g km too large for extent", hexSizeKm)
	}

	g := &Grid{
		Frame:   frame,
		RadiusM: r,
		byID:    make(map[string]*Hex, len(centers)),
		byAxial: make(map[[2]int]*Hex, len(centers)),
	}

	qLo, qHi := centers[0].q, centers[0].q
	rLo, rHi := centers[0].row, centers[0].row
	for _, c := range centers[1:] {
		qLo, qHi = min(qLo, c.q), max(qHi, c.q)
		rLo, rHi = min(rLo, c.row), max(rHi, c.row)
	}
	g.colOff, g.rowOff = qLo, rLo
	g.cols, g.rows = qHi-qLo+1, rHi-rLo+1

	for _, c := range centers {
		lon, lat := frame.Unproject(c.p)
		h := &Hex{
			ID:        g.displayNumber(c.q, c.row),
			Col:       c.q,
			Row:       c.row,
			Center:    c.p,
			CenterLon: lon,
			CenterLat: lat,
			Vertices:  hexVertices(c.p, r),
		}
		g.Hexes = append(g.Hexes, h)
		g.byID[h.ID] = h
		g.byAxial[[2]int{c.q, c.row}] = h
	}
	return g, nil
}

// hexVertices returns the six flat-top vertices in clockwise order,
// starting from the rightmost point.
func hexVertices(c geo.Point, radius float64) geo.Polygon {
	verts := make(geo.Polygon, 6)
	for i := 0; i < 6; i++ {
		angle := -float64(i) * 60 * math.Pi / 180
		verts[i] = geo.Point{
			X: c.X + radius*math.Cos(angle),
			Y: c.Y + radius*math.Sin(angle),
		}
	}
	return verts
}

func (g *Grid) displayNumber(q, row int) string {
	col := q - g.colOff + 1
	r := row - g.rowOff + 1
	if g.cols > 99 || g.rows > 99 {
		return fmt.Sprintf("%03d%03d", col, r)
	}
	return fmt.Sprintf("%02d%02d", col, r)
}

// ByID returns the hex with the given display number, or nil.
func (g *Grid) ByID(id string) *Hex { return g.byID[id] }

// At returns the hex at axial (col, row), or nil.
func (g *Grid) At(col, row int) *Hex { return g.byAxial[[2]int{col, row}] }

// Count returns the number of hexes.
func (g *Grid) Count() int { return len(g.Hexes) }

// Cols and Rows report the grid dimensions used for display numbering.
func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

// FlatToFlatM is the flat-to-flat hex width in meters.
func (g *Grid) FlatToFlatM() float64 { return g.RadiusM * math.Sqrt(3) }

// Bounds returns the projected rectangle covering every hex, padded by one
// hex radius so edge hexes render fully.
func (g *Grid) Bounds() geo.Rect {
	b := g.Hexes[0].Vertices.Bounds()
	for _, h := range g.Hexes[1:] {
		hb := h.Vertices.Bounds()
		b.MinX = math.Min(b.MinX, hb.MinX)
		b.MinY = math.Min(b.MinY, hb.MinY)
		b.MaxX = math.Max(b.MaxX, hb.MaxX)
		b.MaxY = math.Max(b.MaxY, hb.MaxY)
	}
	return b
}

// Neighbors returns the adjacent hexes that exist in the grid. Flat-top
// offset neighbor directions depend on column parity.
func (g *Grid) Neighbors(h *Hex) []*Hex {
	var dirs [6][2]int
	if h.Col%2 == 0 {
		dirs = [6][2]int{{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {0, 1}}
	} else {
		dirs = [6][2]int{{1, 1}, {1, 0}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1}}
	}
	var out []*Hex
	for _, d := range dirs {
		if n := g.At(h.Col+d[0], h.Row+d[1]); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// CenterDistanceM returns the distance in meters between two hex centers.
func (g *Grid) CenterDistanceM(a, b *Hex) float64 {
	dx := a.Center.X - b.Center.X
	dy := a.Center.Y - b.Center.Y
	return math.Sqrt(dx*dx + dy*dy)
}
