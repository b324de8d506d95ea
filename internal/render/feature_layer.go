package render

import (
	"sort"

	"cartograph/internal/geo"
	"cartograph/internal/report"
)

// featureLayer draws linear features. Stroke weight follows importance so a
// major river reads heavier than a stream at any scale.
type featureLayer struct{}

func (featureLayer) Name() string { return "features" }

func (featureLayer) Apply(ctx *Context) error {
	for _, f := range ctx.Lines {
		if len(f.Path) < 2 {
			ctx.Rep.WarnElement(report.WarnGeometryDegeneracy, "", f.Name,
				"%s feature has %d points, skipped", f.Kind, len(f.Path))
			continue
		}
		var color string
		switch f.Kind {
		case "river", "stream":
			if !ctx.Spec.ShowRivers {
				continue
			}
			color = ctx.Style.RiverColor
		case "road", "highway", "track":
			if !ctx.Spec.ShowRoads {
				continue
			}
			color = ctx.Style.RoadColor
		case "rail":
			if !ctx.Spec.ShowRoads {
				continue
			}
			color = ctx.Style.RailColor
		default:
			color = ctx.Style.SettlementInk
		}
		ctx.Scene.Add(Element{
			Kind:     KindLine,
			Space:    SpaceMap,
			Z:        ZFeature,
			Path:     f.Path,
			Text:     f.Name,
			Symbol:   f.Kind,
			Stroke:   color,
			StrokeMM: ctx.Style.LineBaseMM + ctx.Style.LinePerRankMM*float64(f.Importance),
		})
	}
	return nil
}

// settlementLayer places one symbol per settlement, sized by prominence
// rank. Symbol footprints are reserved so the label layer routes around
// them.
type settlementLayer struct{}

func (settlementLayer) Name() string { return "settlements" }

func (settlementLayer) Apply(ctx *Context) error {
	ranked := make([]Settlement, len(ctx.Settlements))
	copy(ranked, ctx.Settlements)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Population > ranked[j].Population
	})

	for rank, s := range ranked {
		size := 1.4
		switch {
		case rank < 3:
			size = 2.4
		case rank < 10:
			size = 1.9
		}
		ctx.Scene.Add(Element{
			Kind:   KindSymbol,
			Space:  SpaceMap,
			Z:      ZSymbol,
			At:     s.Point,
			Symbol: s.Kind,
			SizeMM: size,
			Fill:   ctx.Style.SettlementInk,
		})
		if s.Port && ctx.Spec.ShowPorts {
			ctx.Scene.Add(Element{
				Kind:   KindSymbol,
				Space:  SpaceMap,
				Z:      ZSymbol,
				At:     geo.Point{X: s.Point.X + size/ctx.Transform.MMPerM(), Y: s.Point.Y},
				Symbol: "anchor",
				SizeMM: size * 0.8,
				Fill:   ctx.Style.RiverColor,
			})
		}
		ctx.Reserve(geo.RectFromCenter(ctx.Transform.Apply(s.Point), size*1.2, size*1.2))
	}
	return nil
}
