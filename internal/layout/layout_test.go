package layout

import (
	"errors"
	"math"
	"testing"

	"cartograph/internal/geo"
	"cartograph/internal/report"
)

func sheet22x34(t *testing.T) Sheet {
	t.Helper()
	s, err := SheetFromName("22x34", "landscape", 1)
	if err != nil {
		t.Fatalf("sheet: %v", err)
	}
	return s
}

// Panel regions must sum by area to the full sheet for any combination of
// enabled panels, with no pairwise overlap.
func TestRegionsTileSheetExactly(t *testing.T) {
	sheet := sheet22x34(t)

	combos := []Options{
		{},
		{OOB: true, OOBPosition: "right", OOBRatio: 0.25},
		{OOB: true, OOBPosition: "left", OOBRatio: 0.25},
		{OOB: true, OOBPosition: "bottom", OOBRatio: 0.2},
		{Modules: true, ModulePosition: "bottom", ModuleRatio: 0.2},
		{Modules: true, ModulePosition: "right", ModuleRatio: 0.2},
		{OOB: true, OOBPosition: "right", OOBRatio: 0.25, Modules: true, ModulePosition: "bottom", ModuleRatio: 0.2},
		{OOB: true, OOBPosition: "left", OOBRatio: 0.2, Modules: true, ModulePosition: "bottom", ModuleRatio: 0.15},
	}

	for i, opts := range combos {
		set, err := Partition(sheet, opts, report.New())
		if err != nil {
			t.Fatalf("combo %d: %v", i, err)
		}

		total := 0.0
		for _, r := range set.Regions {
			total += r.Rect.Area()
		}
		sheetArea := sheet.WidthMM * sheet.HeightMM
		if math.Abs(total-sheetArea)/sheetArea > 1e-9 {
			t.Fatalf("combo %d: regions sum to %f, sheet is %f", i, total, sheetArea)
		}

		for a := 0; a < len(set.Regions); a++ {
			for b := a + 1; b < len(set.Regions); b++ {
				if overlap := set.Regions[a].Rect.IntersectionArea(set.Regions[b].Rect); overlap > 1e-9 {
					t.Fatalf("combo %d: regions %d and %d overlap by %f", i, a, b, overlap)
				}
			}
		}

		if set.Map().Rect.Area() <= 0 {
			t.Fatalf("combo %d: no map region", i)
		}
	}
}

func TestOverflowShrinksOnceThenFails(t *testing.T) {
	sheet := sheet22x34(t)
	rep := report.New()

	// 40% OOB panel leaves 60% map width; with min fraction 0.7 the first
	// attempt fails and the halved ratio (20%) succeeds.
	opts := Options{OOB: true, OOBPosition: "right", OOBRatio: 0.4, MinMapFraction: 0.7}
	set, err := Partition(sheet, opts, rep)
	if err != nil {
		t.Fatalf("expected shrink to rescue layout: %v", err)
	}
	if !rep.Has(report.WarnLayoutAdjusted) {
		t.Fatal("shrink attempt not recorded as warning")
	}
	if got := set.Map().Rect.Width(); got < sheet.WidthMM*0.7 {
		t.Fatalf("map width %f still below minimum after shrink", got)
	}

	// Even the halved ratio cannot satisfy an absurd minimum.
	opts = Options{OOB: true, OOBPosition: "right", OOBRatio: 0.4, MinMapFraction: 0.9}
	_, err = Partition(sheet, opts, report.New())
	var overflow *report.LayoutOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("expected LayoutOverflowError, got %v", err)
	}
}

func TestSheetFromName(t *testing.T) {
	s, err := SheetFromName("22x34", "landscape", 1)
	if err != nil {
		t.Fatalf("named size: %v", err)
	}
	if s.WidthMM <= s.HeightMM {
		t.Fatal("landscape sheet should be wider than tall")
	}

	p, err := SheetFromName("22x34", "portrait", 1)
	if err != nil {
		t.Fatalf("portrait: %v", err)
	}
	if p.WidthMM >= p.HeightMM {
		t.Fatal("portrait sheet should be taller than wide")
	}

	lit, err := SheetFromName("20x30", "landscape", 1)
	if err != nil {
		t.Fatalf("literal size: %v", err)
	}
	if math.Abs(lit.WidthMM-30*25.4) > 1e-9 {
		t.Fatalf("literal width %f", lit.WidthMM)
	}

	if _, err := SheetFromName("bogus", "landscape", 1); err == nil {
		t.Fatal("bogus size accepted")
	}
	if _, err := SheetFromName("22x34", "landscape", 3); err == nil {
		t.Fatal("3-sheet arrangement accepted")
	}
}

func TestTileMultiSheet(t *testing.T) {
	sheet := sheet22x34(t)
	set, err := Partition(sheet, Options{OOB: true, OOBPosition: "right", OOBRatio: 0.25}, report.New())
	if err != nil {
		t.Fatalf("partition: %v", err)
	}

	for _, n := range []int{1, 2, 4} {
		tiles, err := Tile(set, n)
		if err != nil {
			t.Fatalf("tile %d: %v", n, err)
		}
		if len(tiles) != n {
			t.Fatalf("tile %d returned %d sets", n, len(tiles))
		}
		for a := 0; a < len(tiles); a++ {
			for b := a + 1; b < len(tiles); b++ {
				for _, ra := range tiles[a].Regions {
					for _, rb := range tiles[b].Regions {
						if ra.Rect.IntersectionArea(rb.Rect) > 1e-9 {
							t.Fatalf("tile %d: sheets %d and %d overlap", n, a, b)
						}
					}
				}
			}
		}
	}
}

func TestAutoFitRelations(t *testing.T) {
	bbox := geo.BoundingBox{MinLon: -1.80, MinLat: 48.80, MaxLon: 0.50, MaxLat: 49.80}
	sheet := sheet22x34(t)
	set, err := Partition(sheet, Options{}, report.New())
	if err != nil {
		t.Fatalf("partition: %v", err)
	}
	mapRegion := set.Map()

	const flatMM = 15.0
	hexKm := HexSizeKmFor(bbox, mapRegion, flatMM)
	if hexKm <= 0 {
		t.Fatalf("hex size %f", hexKm)
	}

	// Deriving the sheet back from that hex size reproduces the binding
	// axis of the map region.
	derived := SheetForBBox(bbox, hexKm, flatMM)
	wOK := math.Abs(derived.WidthMM-mapRegion.Rect.Width()) < 1e-6
	hOK := math.Abs(derived.HeightMM-mapRegion.Rect.Height()) < 1e-6
	if !wOK && !hOK {
		t.Fatalf("derived sheet %+v matches neither map region axis %fx%f",
			derived, mapRegion.Rect.Width(), mapRegion.Rect.Height())
	}

	wKm, hKm := BBoxExtentKmFor(mapRegion, hexKm, flatMM)
	if wKm < bbox.WidthKm()-1e-6 && hKm < bbox.HeightKm()-1e-6 {
		t.Fatalf("derived extent %fx%f km cannot contain bbox %fx%f km",
			wKm, hKm, bbox.WidthKm(), bbox.HeightKm())
	}
}
