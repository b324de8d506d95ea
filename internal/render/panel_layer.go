package render

import (
	"fmt"
	"strings"

	"cartograph/internal/geo"
	"cartograph/internal/layout"
	"cartograph/internal/report"
	"cartograph/internal/spec"
	"cartograph/internal/terrain"
)

// panelLayer fills the non-map regions: the Order of Battle roster and the
// game-module tables (CRT, TEC, sequence of play, custom).
type panelLayer struct{}

func (panelLayer) Name() string { return "panels" }

func (l panelLayer) Apply(ctx *Context) error {
	for _, reg := range ctx.Layout.ByRole(layout.RoleOOB) {
		l.oobPanel(ctx, reg.Rect)
	}
	modRegions := ctx.Layout.ByRole(layout.RoleModule)
	if len(modRegions) > 0 && len(ctx.Spec.ModulePanels) > 0 {
		l.modulePanels(ctx, modRegions[0].Rect)
	}
	return nil
}

const panelPad = 4.0 // mm

func (l panelLayer) frame(ctx *Context, r geo.Rect, title string) float64 {
	ctx.Scene.Add(Element{
		Kind: KindPanel, Space: SpaceSheet, Z: ZPanel,
		Poly: rectPoly(r), Fill: ctx.Style.PanelFill,
		Stroke: ctx.Style.PanelEdge, StrokeMM: 0.4,
	})
	y := r.MaxY - panelPad
	if title != "" {
		font := ctx.FontMM(RolePanel) * 1.3
		y -= font
		ctx.Scene.Add(Element{
			Kind: KindText, Space: SpaceSheet, Z: ZPanel,
			At:   geo.Point{X: r.MinX + panelPad, Y: y},
			Text: title, Role: RolePanel, FontMM: font, Fill: ctx.Style.LabelInk,
		})
		y -= font * 0.6
	}
	return y
}

func (l panelLayer) oobPanel(ctx *Context, r geo.Rect) {
	y := l.frame(ctx, r, "Order of Battle")
	font := ctx.FontMM(RolePanel)
	rowH := font * 1.5

	emit := func(text string, indent float64, bold bool) bool {
		if y-rowH < r.MinY+panelPad {
			ctx.Rep.Warn(report.WarnLayoutAdjusted,
				"order of battle roster truncated, %d mm panel too short", int(r.Height()))
			return false
		}
		y -= rowH
		f := font
		if bold {
			f = font * 1.1
		}
		ctx.Scene.Add(Element{
			Kind: KindText, Space: SpaceSheet, Z: ZPanel,
			At:   geo.Point{X: r.MinX + panelPad + indent, Y: y},
			Text: text, Role: RolePanel, FontMM: f, Fill: ctx.Style.LabelInk,
		})
		return true
	}

	for _, entry := range ctx.Spec.OOBEntries {
		header := entry.Formation
		if entry.Affiliation != "" {
			header = fmt.Sprintf("%s (%s)", entry.Formation, entry.Affiliation)
		}
		if !emit(header, 0, true) {
			return
		}
		for _, u := range entry.Units {
			row := fmt.Sprintf("%s  %s %s  %d-%d", u.Designation, u.UnitType,
				EchelonMark(u.Echelon), u.CombatFactor, u.MovementFactor)
			if u.SetupHex != "" {
				row += "  @" + u.SetupHex
			}
			if !emit(row, font*1.5, false) {
				return
			}
		}
		if entry.Notes != "" {
			if !emit(entry.Notes, font*1.5, false) {
				return
			}
		}
	}
}

func (l panelLayer) modulePanels(ctx *Context, r geo.Rect) {
	n := len(ctx.Spec.ModulePanels)
	w := r.Width() / float64(n)
	for i, mp := range ctx.Spec.ModulePanels {
		sub := geo.Rect{
			MinX: r.MinX + float64(i)*w,
			MinY: r.MinY,
			MaxX: r.MinX + float64(i+1)*w,
			MaxY: r.MaxY,
		}
		title := mp.Title
		headers, rows := moduleTable(mp)
		if title == "" {
			title = defaultModuleTitle(mp.Kind)
		}
		l.table(ctx, sub, title, headers, rows)
	}
}

// table lays a header row and data rows on an even column grid.
func (l panelLayer) table(ctx *Context, r geo.Rect, title string, headers []string, rows [][]string) {
	y := l.frame(ctx, r, title)
	font := ctx.FontMM(RolePanel) * 0.9
	rowH := font * 1.5
	cols := len(headers)
	if cols == 0 {
		for _, row := range rows {
			if len(row) > cols {
				cols = len(row)
			}
		}
	}
	if cols == 0 {
		return
	}
	colW := (r.Width() - 2*panelPad) / float64(cols)

	emitRow := func(cells []string, f float64) bool {
		if y-rowH < r.MinY+panelPad {
			ctx.Rep.Warn(report.WarnLayoutAdjusted,
				"module table %q truncated", title)
			return false
		}
		y -= rowH
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			ctx.Scene.Add(Element{
				Kind: KindText, Space: SpaceSheet, Z: ZPanel,
				At:   geo.Point{X: r.MinX + panelPad + float64(i)*colW, Y: y},
				Text: cell, Role: RolePanel, FontMM: f, Fill: ctx.Style.LabelInk,
			})
		}
		return true
	}

	if len(headers) > 0 {
		if !emitRow(headers, font*1.05) {
			return
		}
	}
	for _, row := range rows {
		if !emitRow(row, font) {
			return
		}
	}
}

func defaultModuleTitle(kind string) string {
	switch kind {
	case "crt":
		return "Combat Results Table"
	case "tec":
		return "Terrain Effects Chart"
	case "sequence_of_play":
		return "Sequence of Play"
	default:
		return strings.ReplaceAll(kind, "_", " ")
	}
}

// crtTable is the classic odds-ratio combat results table. AR/DR are
// attacker/defender retreats, EX exchange, DE defender eliminated.
var crtHeaders = []string{"Die", "1:2", "1:1", "2:1", "3:1", "4:1", "5:1"}

var crtRows = [][]string{
	{"1", "AR", "AR", "EX", "DR", "DR", "DE"},
	{"2", "AR", "EX", "DR", "DR", "DE", "DE"},
	{"3", "AR", "DR", "DR", "EX", "DE", "DE"},
	{"4", "EX", "DR", "DR", "DE", "DE", "DE"},
	{"5", "DR", "DR", "EX", "DE", "DE", "DE"},
	{"6", "DR", "EX", "DE", "DE", "DE", "DE"},
}

var sequenceRows = [][]string{
	{"1. Reinforcement Phase"},
	{"2. Movement Phase"},
	{"3. Combat Phase"},
	{"4. Exploitation Phase"},
	{"5. Supply Check Phase"},
	{"6. Victory Check"},
}

// moduleTable resolves a panel's content. Built-in kinds carry standard
// tables; custom panels bring their own headers and rows.
func moduleTable(mp spec.ModulePanel) ([]string, [][]string) {
	switch mp.Kind {
	case "crt":
		return crtHeaders, crtRows
	case "tec":
		headers := []string{"Terrain", "MP", "DEF", "LOS"}
		var rows [][]string
		for _, t := range terrain.Types {
			eff := terrain.EffectsFor(t)
			los := "-"
			if eff.BlocksLOS {
				los = "blocks"
			}
			rows = append(rows, []string{
				t.Name(),
				fmt.Sprintf("%d", eff.MovementCost),
				fmt.Sprintf("%+d", eff.DefenseMod),
				los,
			})
		}
		return headers, rows
	case "sequence_of_play":
		return nil, sequenceRows
	default:
		return mp.Headers, mp.Rows
	}
}
