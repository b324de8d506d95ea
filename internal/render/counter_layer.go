package render

import (
	"fmt"

	"cartograph/internal/geo"
	"cartograph/internal/report"
	"cartograph/internal/spec"
)

// echelonMarks maps echelon names to the NATO size indicator drawn above
// the counter frame.
var echelonMarks = map[string]string{
	"squad":     "•",
	"platoon":   "•••",
	"company":   "I",
	"battalion": "II",
	"regiment":  "III",
	"brigade":   "X",
	"division":  "XX",
	"corps":     "XXX",
	"army":      "XXXX",
}

// EchelonMark returns the size indicator for an echelon name, empty when
// the echelon is unknown.
func EchelonMark(echelon string) string {
	return echelonMarks[echelon]
}

// counterLayer draws unit counters stacked on their hexes, then movement
// arrows over them.
type counterLayer struct{}

func (counterLayer) Name() string { return "counters" }

func (l counterLayer) Apply(ctx *Context) error {
	ftf := ctx.FlatToFlatMM()
	w := ftf * ctx.Spec.CounterHexRatio
	minW := ctx.Spec.MinCounterPx * 25.4 / float64(ctx.Spec.DPI)
	if w < minW {
		w = minW
	}
	// Never spill into neighboring hexes, even when the legibility floor
	// wants a bigger token.
	if w > ftf {
		w = ftf
	}
	h := w * 5.0 / 6.0

	stacked := map[string]int{}
	for _, c := range ctx.Spec.Counters {
		hex := ctx.Grid.ByID(c.HexID)
		if hex == nil {
			ctx.Rep.WarnElement(report.WarnDataUnavailable, c.HexID, c.Designation,
				"counter targets hex %s which is not on the map", c.HexID)
			continue
		}
		idx := stacked[c.HexID]
		stacked[c.HexID]++

		center := ctx.Transform.Apply(hex.Center)
		off := 0.08 * w * float64(idx)
		center = geo.Point{X: center.X + off, Y: center.Y + off}
		l.drawCounter(ctx, c, center, w, h)
	}

	for _, mp := range ctx.Spec.MovementPlans {
		l.drawArrow(ctx, mp)
	}
	return nil
}

func (counterLayer) drawCounter(ctx *Context, c spec.Counter, center geo.Point, w, h float64) {
	box := geo.RectFromCenter(center, w, h)
	shape := "rect"
	if c.Affiliation == "hostile" {
		shape = "diamond"
	}
	fill, ok := ctx.Style.CounterFill[c.Affiliation]
	if !ok {
		fill = ctx.Style.CounterFill["neutral"]
	}
	ctx.Scene.Add(Element{
		Kind:     KindCounter,
		Space:    SpaceSheet,
		Z:        ZCounter,
		HexID:    c.HexID,
		Poly:     rectPoly(box),
		Symbol:   shape,
		Fill:     fill,
		Stroke:   ctx.Style.CounterInk,
		StrokeMM: 0.2,
	})

	font := h * 0.18
	if font < MinCounterFontMM {
		font = MinCounterFontMM
	}
	ink := ctx.Style.CounterInk

	if c.Designation != "" {
		ctx.Scene.Add(Element{
			Kind: KindText, Space: SpaceSheet, Z: ZCounter, HexID: c.HexID,
			At:   geo.Point{X: center.X, Y: box.MaxY - font*0.7},
			Text: c.Designation, Role: RoleCounter, FontMM: font, Fill: ink,
		})
	}
	if mark := EchelonMark(c.Echelon); mark != "" {
		ctx.Scene.Add(Element{
			Kind: KindText, Space: SpaceSheet, Z: ZCounter, HexID: c.HexID,
			At:   geo.Point{X: center.X, Y: box.MaxY + font*0.8},
			Text: mark, Role: RoleCounter, FontMM: font, Fill: ctx.Style.LabelInk,
		})
	}
	ctx.Scene.Add(Element{
		Kind: KindSymbol, Space: SpaceSheet, Z: ZCounter, HexID: c.HexID,
		At: center, Symbol: c.UnitType, SizeMM: h * 0.42, Fill: ink,
	})

	values := fmt.Sprintf("%d-%d", c.CombatFactor, c.MovementFactor)
	if c.DefenseFactor > 0 {
		values = fmt.Sprintf("%d-%d-%d", c.CombatFactor, c.DefenseFactor, c.MovementFactor)
	}
	ctx.Scene.Add(Element{
		Kind: KindText, Space: SpaceSheet, Z: ZCounter, HexID: c.HexID,
		At:   geo.Point{X: center.X, Y: box.MinY + font*0.7},
		Text: values, Role: RoleCounter, FontMM: font, Fill: ink,
	})

	if c.Reduced {
		ctx.Scene.Add(Element{
			Kind: KindLine, Space: SpaceSheet, Z: ZCounter, HexID: c.HexID,
			Path:   []geo.Point{{X: box.MinX, Y: box.MinY}, {X: box.MaxX, Y: box.MaxY}},
			Stroke: "#c43a2a", StrokeMM: 0.4,
		})
	}
	if c.Disrupted {
		ctx.Scene.Add(Element{
			Kind: KindText, Space: SpaceSheet, Z: ZCounter, HexID: c.HexID,
			At:   geo.Point{X: box.MaxX - font*0.6, Y: center.Y},
			Text: "D", Role: RoleCounter, FontMM: font, Fill: "#c43a2a",
		})
	}
	if c.OutOfSupply {
		ctx.Scene.Add(Element{
			Kind: KindSymbol, Space: SpaceSheet, Z: ZCounter, HexID: c.HexID,
			At: geo.Point{X: box.MinX + font*0.6, Y: center.Y}, Symbol: "supply_out",
			SizeMM: font, Fill: "#c43a2a",
		})
	}
}

func (counterLayer) drawArrow(ctx *Context, mp spec.MovementPlan) {
	path := make([]geo.Point, 0, len(mp.HexPath))
	for _, id := range mp.HexPath {
		hex := ctx.Grid.ByID(id)
		if hex == nil {
			ctx.Rep.WarnElement(report.WarnDataUnavailable, id, mp.UnitDesignation,
				"movement path crosses hex %s which is not on the map", id)
			return
		}
		path = append(path, ctx.Transform.Apply(hex.Center))
	}
	if len(path) < 2 {
		ctx.Rep.WarnElement(report.WarnGeometryDegeneracy, "", mp.UnitDesignation,
			"movement path needs at least 2 hexes, got %d", len(path))
		return
	}
	color, ok := ctx.Style.CounterFill[mp.Affiliation]
	if !ok {
		color = ctx.Style.CounterFill["neutral"]
	}
	ctx.Scene.Add(Element{
		Kind:     KindArrow,
		Space:    SpaceSheet,
		Z:        ZArrow,
		Path:     path,
		Text:     mp.UnitDesignation,
		Stroke:   color,
		StrokeMM: 0.9,
		Alpha:    0.45,
	})
}
