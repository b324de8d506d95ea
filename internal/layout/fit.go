package layout

import (
	"math"

	"cartograph/internal/geo"
)

// Auto-fit relations between sheet size, bounding box, and hex size: given
// any two, the third is derived so the map region's aspect ratio stays
// consistent with the bbox.

// HexSizeKmFor derives the hex size that renders at the requested
// flat-to-flat width on sheet, for a bbox drawn into the map region.
func HexSizeKmFor(bbox geo.BoundingBox, mapRegion Region, flatToFlatMM float64) float64 {
	if flatToFlatMM <= 0 || mapRegion.Rect.Width() <= 0 {
		return 0
	}
	mPerMM := metersPerMM(bbox, mapRegion)
	flatToFlatM := flatToFlatMM * mPerMM
	return flatToFlatM / math.Sqrt(3) / 1000
}

// SheetForBBox derives the sheet that renders hexes of the given size at
// the requested flat-to-flat width, preserving the bbox aspect ratio.
func SheetForBBox(bbox geo.BoundingBox, hexSizeKm, flatToFlatMM float64) Sheet {
	if hexSizeKm <= 0 || flatToFlatMM <= 0 {
		return Sheet{}
	}
	flatToFlatM := hexSizeKm * 1000 * math.Sqrt(3)
	mmPerM := flatToFlatMM / flatToFlatM
	return Sheet{
		WidthMM:  bbox.WidthKm() * 1000 * mmPerM,
		HeightMM: bbox.HeightKm() * 1000 * mmPerM,
	}
}

// BBoxExtentKmFor derives the ground extent a map region covers when hexes
// of the given size render at the requested flat-to-flat width.
func BBoxExtentKmFor(mapRegion Region, hexSizeKm, flatToFlatMM float64) (widthKm, heightKm float64) {
	if hexSizeKm <= 0 || flatToFlatMM <= 0 {
		return 0, 0
	}
	flatToFlatM := hexSizeKm * 1000 * math.Sqrt(3)
	mPerMM := flatToFlatM / flatToFlatMM
	return mapRegion.Rect.Width() * mPerMM / 1000, mapRegion.Rect.Height() * mPerMM / 1000
}

// metersPerMM is the map scale: ground meters per sheet millimeter when the
// bbox fills the map region (limited by the tighter axis).
func metersPerMM(bbox geo.BoundingBox, mapRegion Region) float64 {
	w := mapRegion.Rect.Width()
	h := mapRegion.Rect.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	sx := bbox.WidthKm() * 1000 / w
	sy := bbox.HeightKm() * 1000 / h
	return math.Max(sx, sy)
}
