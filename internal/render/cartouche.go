package render

import (
	"fmt"
	"sort"

	"cartograph/internal/geo"
	"cartograph/internal/grid"
	"cartograph/internal/terrain"
)

// cartoucheLayer draws the map furniture: title block, terrain legend,
// scale bar, compass rose, and the coordinate ticks along the map frame.
// Everything here lives in sheet space inside the map region margins.
type cartoucheLayer struct{}

func (cartoucheLayer) Name() string { return "cartouche" }

const cartoucheMargin = 4.0 // mm inside the map region

func (l cartoucheLayer) Apply(ctx *Context) error {
	r := ctx.Layout.Map().Rect
	if ctx.Spec.Title != "" {
		l.titleBlock(ctx, r)
	}
	if ctx.Spec.ShowLegend {
		l.legend(ctx, r)
	}
	if ctx.Spec.ShowScaleBar {
		l.scaleBar(ctx, r)
	}
	if ctx.Spec.ShowCompass {
		ctx.Scene.Add(Element{
			Kind:   KindCompass,
			Space:  SpaceSheet,
			Z:      ZCartouche,
			At:     geo.Point{X: r.MaxX - cartoucheMargin - 6, Y: r.MaxY - cartoucheMargin - 6},
			SizeMM: 10,
			Fill:   ctx.Style.LabelInk,
		})
	}
	if ctx.Spec.ShowHexNumbers && ctx.Readability != grid.ReadTooSmall {
		l.coordTicks(ctx, r)
	}
	return nil
}

func (l cartoucheLayer) titleBlock(ctx *Context, r geo.Rect) {
	titleMM := ctx.FontMM(RoleTitle)
	subMM := ctx.FontMM(RoleSubtitle)

	type cartLine struct {
		text string
		font float64
		role TextRole
	}
	lines := []cartLine{{ctx.Spec.Title, titleMM, RoleTitle}}
	if ctx.Spec.Subtitle != "" {
		lines = append(lines, cartLine{ctx.Spec.Subtitle, subMM, RoleSubtitle})
	}
	if ctx.Spec.Scenario != "" {
		lines = append(lines, cartLine{ctx.Spec.Scenario, subMM * 0.8, RoleSubtitle})
	}
	lines = append(lines, cartLine{fmt.Sprintf("1 hex = %g km", ctx.Spec.HexSizeKm), subMM * 0.8, RoleSubtitle})

	pad := 3.0
	width := 0.0
	height := pad
	for _, ln := range lines {
		if w := 0.58 * ln.font * float64(len(ln.text)); w > width {
			width = w
		}
		height += ln.font * 1.5
	}
	width += 2 * pad
	height += pad

	box := geo.Rect{
		MinX: r.MinX + cartoucheMargin,
		MinY: r.MaxY - cartoucheMargin - height,
		MaxX: r.MinX + cartoucheMargin + width,
		MaxY: r.MaxY - cartoucheMargin,
	}
	ctx.Scene.Add(Element{
		Kind: KindPanel, Space: SpaceSheet, Z: ZCartouche,
		Poly: rectPoly(box), Fill: ctx.Style.PanelFill,
		Stroke: ctx.Style.PanelEdge, StrokeMM: 0.3, Alpha: 0.92,
	})

	y := box.MaxY - pad
	for _, ln := range lines {
		y -= ln.font * 1.2
		ctx.Scene.Add(Element{
			Kind: KindText, Space: SpaceSheet, Z: ZCartouche,
			At:   geo.Point{X: box.MinX + pad, Y: y},
			Text: ln.text, Role: ln.role, FontMM: ln.font, Fill: ctx.Style.LabelInk,
		})
		y -= ln.font * 0.3
	}
	ctx.Reserve(box)
}

// legend lists every terrain type present on the map with its fill swatch
// and game effects.
func (l cartoucheLayer) legend(ctx *Context, r geo.Rect) {
	present := map[terrain.Type]bool{}
	for _, asg := range ctx.Terrain {
		present[asg.Type] = true
	}

	font := ctx.FontMM(RoleLegend)
	rowH := font * 1.6
	pad := 3.0
	var rows []terrain.Type
	for _, t := range terrain.Types {
		if present[t] {
			rows = append(rows, t)
		}
	}
	if len(rows) == 0 {
		return
	}

	width := 58 * font / 2.8
	height := pad*2 + rowH*float64(len(rows)+1)
	box := geo.Rect{
		MinX: r.MinX + cartoucheMargin,
		MinY: r.MinY + cartoucheMargin,
		MaxX: r.MinX + cartoucheMargin + width,
		MaxY: r.MinY + cartoucheMargin + height,
	}
	ctx.Scene.Add(Element{
		Kind: KindPanel, Space: SpaceSheet, Z: ZCartouche,
		Poly: rectPoly(box), Fill: ctx.Style.PanelFill,
		Stroke: ctx.Style.PanelEdge, StrokeMM: 0.3, Alpha: 0.92,
	})

	y := box.MaxY - pad - rowH/2
	ctx.Scene.Add(Element{
		Kind: KindText, Space: SpaceSheet, Z: ZCartouche,
		At:   geo.Point{X: box.MinX + pad, Y: y},
		Text: "Terrain Effects", Role: RoleLegend, FontMM: font * 1.1, Fill: ctx.Style.LabelInk,
	})
	for _, t := range rows {
		y -= rowH
		sw := geo.RectFromCenter(geo.Point{X: box.MinX + pad + font, Y: y}, font*1.6, font*1.1)
		ctx.Scene.Add(Element{
			Kind: KindPatch, Space: SpaceSheet, Z: ZCartouche,
			Poly: rectPoly(sw), Fill: ctx.Style.TerrainFill[t],
			Stroke: ctx.Style.PanelEdge, StrokeMM: 0.15,
		})
		eff := terrain.EffectsFor(t)
		los := ""
		if eff.BlocksLOS {
			los = "  blocks LOS"
		}
		ctx.Scene.Add(Element{
			Kind: KindText, Space: SpaceSheet, Z: ZCartouche,
			At:   geo.Point{X: box.MinX + pad + font*2.6, Y: y},
			Text: fmt.Sprintf("%s  MP %d  DEF %+d%s", t.Name(), eff.MovementCost, eff.DefenseMod, los),
			Role: RoleLegend, FontMM: font, Fill: ctx.Style.LabelInk,
		})
	}
	ctx.Reserve(box)
}

// scaleBar picks the largest round distance that fits a fifth of the map
// width.
func (l cartoucheLayer) scaleBar(ctx *Context, r geo.Rect) {
	mmPerKm := ctx.Transform.MMPerM() * 1000
	maxMM := r.Width() * 0.2
	candidates := []float64{1, 2, 5, 10, 20, 50, 100, 200, 500}
	km := candidates[0]
	for _, c := range candidates {
		if c*mmPerKm <= maxMM {
			km = c
		}
	}
	lenMM := km * mmPerKm
	x := r.MaxX - cartoucheMargin - lenMM
	y := r.MinY + cartoucheMargin + 3
	ctx.Scene.Add(Element{
		Kind:     KindScaleBar,
		Space:    SpaceSheet,
		Z:        ZCartouche,
		Path:     []geo.Point{{X: x, Y: y}, {X: x + lenMM, Y: y}},
		Text:     fmt.Sprintf("%g km", km),
		Stroke:   ctx.Style.LabelInk,
		StrokeMM: 0.6,
	})
	ctx.Reserve(geo.Rect{MinX: x, MinY: y - 2, MaxX: x + lenMM, MaxY: y + 5})
}

// coordTicks labels each column along the top frame edge and each row
// along the left edge, using the same digits the hex IDs carry.
func (l cartoucheLayer) coordTicks(ctx *Context, r geo.Rect) {
	font := ctx.FontMM(RoleHexNumber)

	colRep := map[int]*grid.Hex{}
	rowRep := map[int]*grid.Hex{}
	for _, h := range ctx.Grid.Hexes {
		if best := colRep[h.Col]; best == nil || h.Center.Y > best.Center.Y {
			colRep[h.Col] = h
		}
		if best := rowRep[h.Row]; best == nil || h.Center.X < best.Center.X {
			rowRep[h.Row] = h
		}
	}

	for _, col := range sortedKeys(colRep) {
		h := colRep[col]
		half := len(h.ID) / 2
		p := ctx.Transform.Apply(h.Center)
		ctx.Scene.Add(Element{
			Kind: KindTick, Space: SpaceSheet, Z: ZCartouche,
			At:   geo.Point{X: p.X, Y: r.MaxY - font},
			Text: h.ID[:half], Role: RoleHexNumber, FontMM: font, Fill: ctx.Style.LabelInk,
		})
	}
	for _, row := range sortedKeys(rowRep) {
		h := rowRep[row]
		half := len(h.ID) / 2
		p := ctx.Transform.Apply(h.Center)
		ctx.Scene.Add(Element{
			Kind: KindTick, Space: SpaceSheet, Z: ZCartouche,
			At:   geo.Point{X: r.MinX + font, Y: p.Y},
			Text: h.ID[half:], Role: RoleHexNumber, FontMM: font, Fill: ctx.Style.LabelInk,
		})
	}
}

func sortedKeys(m map[int]*grid.Hex) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
