package render

import (
	"fmt"

	"cartograph/internal/coast"
	"cartograph/internal/geo"
	"cartograph/internal/grid"
	"cartograph/internal/layout"
	"cartograph/internal/report"
	"cartograph/internal/spec"
	"cartograph/internal/terrain"
)

// LineFeature is a linear map feature (river, road, rail) in projected
// meters. Importance ranks features of the same kind; higher draws heavier.
type LineFeature struct {
	Name       string      `json:"name,omitempty"`
	Kind       string      `json:"kind"`
	Importance int         `json:"importance"`
	Path       []geo.Point `json:"path"`
}

// Settlement is a populated place in projected meters.
type Settlement struct {
	Name       string    `json:"name"`
	Kind       string    `json:"kind"` // city, town, village
	Point      geo.Point `json:"point"`
	Population int       `json:"population"`
	Port       bool      `json:"port,omitempty"`
}

// Transform maps projected meters onto the sheet's map region in
// millimeters. The world is fit to the region and centered; aspect is
// preserved.
type Transform struct {
	mmPerM  float64
	world   geo.Rect
	offsetX float64
	offsetY float64
}

// NewTransform fits a world rectangle into a sheet region.
func NewTransform(world, region geo.Rect) Transform {
	sx := region.Width() / world.Width()
	sy := region.Height() / world.Height()
	s := sx
	if sy < s {
		s = sy
	}
	usedW := world.Width() * s
	usedH := world.Height() * s
	return Transform{
		mmPerM:  s,
		world:   world,
		offsetX: region.MinX + (region.Width()-usedW)/2,
		offsetY: region.MinY + (region.Height()-usedH)/2,
	}
}

// MMPerM is the sheet scale in millimeters per projected meter.
func (t Transform) MMPerM() float64 { return t.mmPerM }

// Apply converts a projected point to sheet millimeters.
func (t Transform) Apply(p geo.Point) geo.Point {
	return geo.Point{
		X: t.offsetX + (p.X-t.world.MinX)*t.mmPerM,
		Y: t.offsetY + (p.Y-t.world.MinY)*t.mmPerM,
	}
}

// Poly converts a whole polygon to sheet millimeters.
func (t Transform) Poly(p geo.Polygon) geo.Polygon {
	out := make(geo.Polygon, len(p))
	for i, pt := range p {
		out[i] = t.Apply(pt)
	}
	return out
}

// Path converts a point slice to sheet millimeters.
func (t Transform) Path(pts []geo.Point) []geo.Point {
	out := make([]geo.Point, len(pts))
	for i, pt := range pts {
		out[i] = t.Apply(pt)
	}
	return out
}

// Context carries everything the layers read and the scene they write.
// Layers append elements and reserve label space; nothing else is mutated.
type Context struct {
	Spec  *spec.MapSpec
	Style *Style

	Grid        *grid.Grid
	Terrain     map[string]terrain.Assignment
	Coast       *coast.Result
	Lines       []LineFeature
	Settlements []Settlement

	Layout      *layout.Set
	Transform   Transform
	Readability grid.Readability
	Occupied    map[string]bool

	Scene *Scene
	Rep   *report.Report

	placed []geo.Rect // label boxes already claimed, sheet mm
}

// FlatToFlatMM is the rendered hex width on the sheet.
func (c *Context) FlatToFlatMM() float64 {
	return c.Grid.FlatToFlatM() * c.Transform.MMPerM()
}

// FontMM resolves a typography role from the context style. The style is
// expected to carry the spec's font scale already (see Style.Scaled).
func (c *Context) FontMM(role TextRole) float64 {
	return c.Style.FontMM(role)
}

// Reserve claims a label box so later placements route around it.
func (c *Context) Reserve(r geo.Rect) {
	c.placed = append(c.placed, r)
}

// OverlapArea sums the intersection of a candidate box with every claimed
// box.
func (c *Context) OverlapArea(r geo.Rect) float64 {
	total := 0.0
	for _, p := range c.placed {
		total += r.IntersectionArea(p)
	}
	return total
}

// PlacedCount reports how many label boxes have been claimed.
func (c *Context) PlacedCount() int { return len(c.placed) }

// TextBox estimates the bounding box of a text run centered at a point.
// Width is a glyph-count approximation; collision avoidance only needs a
// consistent estimate, not font metrics.
func TextBox(center geo.Point, text string, fontMM float64) geo.Rect {
	w := 0.58 * fontMM * float64(len(text))
	h := 1.15 * fontMM
	return geo.RectFromCenter(center, w, h)
}

// Layer is one pass of the compositor.
type Layer interface {
	Name() string
	Apply(*Context) error
}

// Layers returns the compositor stack for a spec, in draw order. Toggles
// that disable a whole layer drop it here; finer-grained toggles are
// honored inside the layers.
func Layers(s *spec.MapSpec) []Layer {
	ls := []Layer{terrainLayer{}}
	if s.ShowHillshade {
		ls = append(ls, hillshadeLayer{})
	}
	ls = append(ls, featureLayer{})
	if s.ShowCities {
		ls = append(ls, settlementLayer{})
	}
	ls = append(ls, labelLayer{}, counterLayer{}, cartoucheLayer{}, panelLayer{})
	return ls
}

// Compose runs the full stack and sorts the scene into draw order.
func Compose(ctx *Context) error {
	for _, l := range Layers(ctx.Spec) {
		if err := l.Apply(ctx); err != nil {
			return fmt.Errorf("layer %s: %w", l.Name(), err)
		}
	}
	ctx.Scene.Sort()
	return nil
}
