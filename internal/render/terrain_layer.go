package render

import (
	"math"

	"cartograph/internal/grid"
	"cartograph/internal/terrain"
)

// terrainLayer paints the base fill, partial-hex water, hatch decoration,
// and the hex edge for every hex. It is always the first layer; everything
// else draws over it.
type terrainLayer struct{}

func (terrainLayer) Name() string { return "terrain" }

func (terrainLayer) Apply(ctx *Context) error {
	decorate := ctx.Readability != grid.ReadTooSmall
	for _, h := range ctx.Grid.Hexes {
		asg := ctx.Terrain[h.ID]
		ctx.Scene.Add(Element{
			Kind:  KindHexFill,
			Space: SpaceMap,
			Z:     ZTerrain,
			HexID: h.ID,
			Poly:  h.Vertices,
			Fill:  ctx.Style.TerrainFill[asg.Type],
		})

		// Partial water renders on top of the land fill so the coastline
		// reads exactly where the clip put it. Full-water hexes already
		// carry the water fill.
		if ctx.Coast != nil && asg.Type != terrain.Water {
			for _, frag := range ctx.Coast.Fragments(h.ID) {
				ctx.Scene.Add(Element{
					Kind:  KindWater,
					Space: SpaceMap,
					Z:     ZWater,
					HexID: h.ID,
					Poly:  frag,
					Fill:  ctx.Style.TerrainFill[terrain.Water],
				})
			}
		}

		if decorate {
			if hatch := ctx.Style.TerrainHatch[asg.Type]; hatch != "" {
				el := Element{
					Kind:  KindHexHatch,
					Space: SpaceMap,
					Z:     ZHatch,
					HexID: h.ID,
					Poly:  h.Vertices,
					Hatch: hatch,
					Fill:  ctx.Style.SettlementInk,
				}
				if ctx.Occupied[h.ID] {
					el.Alpha = ctx.Style.OccupiedDimTo
				}
				ctx.Scene.Add(el)
			}
		}

		ctx.Scene.Add(Element{
			Kind:     KindHexEdge,
			Space:    SpaceMap,
			Z:        ZEdge,
			HexID:    h.ID,
			Poly:     h.Vertices,
			Stroke:   ctx.Style.HexEdgeColor,
			StrokeMM: ctx.Style.HexEdgeMM,
		})
	}
	return nil
}

// hillshadeLayer overlays a per-hex shadow derived from the elevation
// gradient against the style's light direction. Water hexes stay flat.
type hillshadeLayer struct{}

func (hillshadeLayer) Name() string { return "hillshade" }

func (hillshadeLayer) Apply(ctx *Context) error {
	hs := ctx.Style.Hillshade
	if hs.Alpha <= 0 {
		return nil
	}
	zenith := (90 - hs.AltitudeDeg) * math.Pi / 180
	// Light azimuth is compass degrees; convert to math angle.
	lightAng := (90 - hs.AzimuthDeg) * math.Pi / 180

	for _, h := range ctx.Grid.Hexes {
		asg := ctx.Terrain[h.ID]
		if asg.Type == terrain.Water {
			continue
		}
		var gx, gy float64
		for _, n := range ctx.Grid.Neighbors(h) {
			dx := n.Center.X - h.Center.X
			dy := n.Center.Y - h.Center.Y
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				continue
			}
			de := ctx.Terrain[n.ID].ElevationM - asg.ElevationM
			gx += de * dx / d2
			gy += de * dy / d2
		}
		slope := asg.SlopeDeg * math.Pi / 180
		// Downhill direction is the face the light hits or misses.
		face := math.Atan2(-gy, -gx)
		illum := math.Cos(zenith)*math.Cos(slope) +
			math.Sin(zenith)*math.Sin(slope)*math.Cos(lightAng-face)
		if illum < 0 {
			illum = 0
		}
		if illum > 1 {
			illum = 1
		}
		alpha := hs.Alpha * (1 - illum)
		if alpha < 0.01 {
			continue
		}
		ctx.Scene.Add(Element{
			Kind:  KindHexShade,
			Space: SpaceMap,
			Z:     ZShade,
			HexID: h.ID,
			Poly:  h.Vertices,
			Fill:  "#2b2419",
			Alpha: alpha,
		})
	}
	return nil
}
