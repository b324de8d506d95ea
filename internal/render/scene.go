package render

import (
	"sort"

	"cartograph/internal/geo"
)

// Space tags which coordinate system an element's geometry lives in. Map
// elements are in projected meters and pass through the sheet transform at
// draw time; sheet elements are already in millimeters.
type Space string

const (
	SpaceMap   Space = "map"
	SpaceSheet Space = "sheet"
)

// Kind identifies what an element draws.
type Kind string

const (
	KindHexFill  Kind = "hex_fill"
	KindHexHatch Kind = "hex_hatch"
	KindHexShade Kind = "hex_shade"
	KindHexEdge  Kind = "hex_edge"
	KindWater    Kind = "water"
	KindLine     Kind = "line"
	KindSymbol   Kind = "symbol"
	KindPatch    Kind = "patch"
	KindText     Kind = "text"
	KindCounter  Kind = "counter"
	KindArrow    Kind = "arrow"
	KindPanel    Kind = "panel"
	KindScaleBar Kind = "scale_bar"
	KindCompass  Kind = "compass"
	KindTick     Kind = "tick"
)

// Z bands per layer. Within a band append order is preserved.
const (
	ZTerrain   = 10
	ZWater     = 14
	ZHatch     = 16
	ZShade     = 18
	ZEdge      = 20
	ZFeature   = 30
	ZSymbol    = 40
	ZPatch     = 48
	ZLabel     = 50
	ZCounter   = 60
	ZArrow     = 66
	ZCartouche = 70
	ZPanel     = 80
)

// Element is one drawable item. The struct is deliberately flat so scenes
// serialize to plain JSON; unused fields stay at their zero value.
type Element struct {
	Kind  Kind   `json:"kind"`
	Space Space  `json:"space"`
	Z     int    `json:"z"`
	HexID string `json:"hex_id,omitempty"`

	Poly geo.Polygon `json:"poly,omitempty"`
	Path []geo.Point `json:"path,omitempty"`
	At   geo.Point   `json:"at,omitempty"`

	Text     string   `json:"text,omitempty"`
	Role     TextRole `json:"role,omitempty"`
	FontMM   float64  `json:"font_mm,omitempty"`
	Symbol   string   `json:"symbol,omitempty"`
	SizeMM   float64  `json:"size_mm,omitempty"`
	Fill     string   `json:"fill,omitempty"`
	Stroke   string   `json:"stroke,omitempty"`
	StrokeMM float64  `json:"stroke_mm,omitempty"`
	Hatch    string   `json:"hatch,omitempty"`
	Alpha    float64  `json:"alpha,omitempty"` // 0 means opaque

	Degraded bool `json:"degraded,omitempty"`
}

// Scene is the ordered element list a backend rasterizes or plots.
type Scene struct {
	Elements []Element `json:"elements"`
}

// Add appends an element.
func (s *Scene) Add(el Element) {
	s.Elements = append(s.Elements, el)
}

// Sort orders elements by Z band, keeping append order inside a band.
func (s *Scene) Sort() {
	sort.SliceStable(s.Elements, func(i, j int) bool {
		return s.Elements[i].Z < s.Elements[j].Z
	})
}

// ByKind returns the elements of one kind in scene order.
func (s *Scene) ByKind(k Kind) []Element {
	var out []Element
	for _, el := range s.Elements {
		if el.Kind == k {
			out = append(out, el)
		}
	}
	return out
}

// CountKind reports how many elements of one kind the scene holds.
func (s *Scene) CountKind(k Kind) int {
	n := 0
	for _, el := range s.Elements {
		if el.Kind == k {
			n++
		}
	}
	return n
}
