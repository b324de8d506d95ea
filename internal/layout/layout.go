// Package layout partitions the physical output sheet into a map region
// plus optional Order-of-Battle and game-module panel regions. Regions are
// mutually non-overlapping and together exactly tile the sheet.
package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cartograph/internal/geo"
	"cartograph/internal/report"
)

// Role tags what a region is for.
type Role string

const (
	RoleMap    Role = "map"
	RoleOOB    Role = "oob"
	RoleModule Role = "module"
)

// Region is a rectangle in sheet coordinates (millimeters, origin at the
// bottom-left corner of the sheet).
type Region struct {
	Role Role     `json:"role"`
	Rect geo.Rect `json:"rect"`
}

// Sheet is the physical output sheet size.
type Sheet struct {
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

const inchesToMM = 25.4

// sheetSizes are the standard wargame sheet sizes, landscape inches.
var sheetSizes = map[string][2]float64{
	"11x17": {17, 11},
	"17x22": {22, 17},
	"22x34": {34, 22},
	"34x44": {44, 34},
}

// SheetFromName resolves a named sheet size ("22x34") or a literal "WxH" in
// inches, applying orientation and the multi-sheet count (1, 2, or 4 sheets
// arranged 1x1, 1x2, 2x2).
func SheetFromName(name, orientation string, sheets int) (Sheet, error) {
	key := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	var wIn, hIn float64
	if dims, ok := sheetSizes[key]; ok {
		wIn, hIn = dims[0], dims[1]
	} else {
		parts := strings.Split(key, "x")
		if len(parts) != 2 {
			return Sheet{}, fmt.Errorf("unknown sheet size %q", name)
		}
		var err1, err2 error
		wIn, err1 = strconv.ParseFloat(parts[0], 64)
		hIn, err2 = strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return Sheet{}, fmt.Errorf("unknown sheet size %q", name)
		}
	}

	if orientation == "portrait" {
		wIn, hIn = math.Min(wIn, hIn), math.Max(wIn, hIn)
	} else {
		wIn, hIn = math.Max(wIn, hIn), math.Min(wIn, hIn)
	}

	switch sheets {
	case 0, 1:
	case 2:
		wIn *= 2
	case 4:
		wIn *= 2
		hIn *= 2
	default:
		return Sheet{}, fmt.Errorf("unsupported sheet count %d (want 1, 2, or 4)", sheets)
	}
	return Sheet{WidthMM: wIn * inchesToMM, HeightMM: hIn * inchesToMM}, nil
}

// Options select which panels are carved out of the sheet.
type Options struct {
	OOB            bool
	OOBPosition    string  // "right", "left", "bottom"
	OOBRatio       float64 // fraction of sheet width (or height when bottom)
	Modules        bool
	ModulePosition string  // "bottom", "right", "left"
	ModuleRatio    float64 // fraction of sheet height (or width for sides)
	MinMapFraction float64 // map region must keep this fraction per axis
}

// DefaultOptions returns the standard panel ratios.
func DefaultOptions() Options {
	return Options{
		OOBPosition:    "right",
		OOBRatio:       0.25,
		ModulePosition: "bottom",
		ModuleRatio:    0.20,
		MinMapFraction: 0.45,
	}
}

// Set is the partition result for one sheet.
type Set struct {
	Sheet   Sheet    `json:"sheet"`
	Regions []Region `json:"regions"`
}

// Map returns the map region.
func (s *Set) Map() Region {
	for _, r := range s.Regions {
		if r.Role == RoleMap {
			return r
		}
	}
	return Region{}
}

// ByRole returns all regions with the given role.
func (s *Set) ByRole(role Role) []Region {
	var out []Region
	for _, r := range s.Regions {
		if r.Role == role {
			out = append(out, r)
		}
	}
	return out
}

// Partition subdivides the sheet. When the map region would fall below the
// minimum readable fraction, panel ratios are shrunk once (recorded as a
// warning); if still infeasible the run fails with LayoutOverflowError.
func Partition(sheet Sheet, opts Options, rep *report.Report) (*Set, error) {
	if sheet.WidthMM <= 0 || sheet.HeightMM <= 0 {
		return nil, report.Configf("sheet", "non-positive sheet size %gx%g mm", sheet.WidthMM, sheet.HeightMM)
	}
	if opts.MinMapFraction <= 0 {
		opts.MinMapFraction = DefaultOptions().MinMapFraction
	}

	set, ok := partitionOnce(sheet, opts)
	if ok {
		return set, nil
	}

	// Auto-adjustment: halve the panel ratios, once.
	shrunk := opts
	shrunk.OOBRatio /= 2
	shrunk.ModuleRatio /= 2
	if rep != nil {
		rep.Warn(report.WarnLayoutAdjusted,
			"map region below %.0f%% of sheet, panel ratios halved (oob %.2f, module %.2f)",
			opts.MinMapFraction*100, shrunk.OOBRatio, shrunk.ModuleRatio)
	}
	set, ok = partitionOnce(sheet, shrunk)
	if !ok {
		return nil, &report.LayoutOverflowError{
			Reason: fmt.Sprintf("panels leave map region below %.0f%% of the sheet even after shrinking",
				opts.MinMapFraction*100),
		}
	}
	return set, nil
}

func partitionOnce(sheet Sheet, opts Options) (*Set, bool) {
	mapRect := geo.Rect{MinX: 0, MinY: 0, MaxX: sheet.WidthMM, MaxY: sheet.HeightMM}
	var regions []Region

	if opts.OOB && opts.OOBRatio > 0 {
		w := sheet.WidthMM * opts.OOBRatio
		h := sheet.HeightMM * opts.OOBRatio
		switch opts.OOBPosition {
		case "left":
			regions = append(regions, Region{Role: RoleOOB, Rect: geo.Rect{
				MinX: mapRect.MinX, MinY: mapRect.MinY, MaxX: mapRect.MinX + w, MaxY: mapRect.MaxY}})
			mapRect.MinX += w
		case "bottom":
			regions = append(regions, Region{Role: RoleOOB, Rect: geo.Rect{
				MinX: mapRect.MinX, MinY: mapRect.MinY, MaxX: mapRect.MaxX, MaxY: mapRect.MinY + h}})
			mapRect.MinY += h
		default: // right
			regions = append(regions, Region{Role: RoleOOB, Rect: geo.Rect{
				MinX: mapRect.MaxX - w, MinY: mapRect.MinY, MaxX: mapRect.MaxX, MaxY: mapRect.MaxY}})
			mapRect.MaxX -= w
		}
	}

	if opts.Modules && opts.ModuleRatio > 0 {
		// Module strips span the map column/row only, so regions tile the
		// sheet exactly alongside a side OOB panel.
		h := sheet.HeightMM * opts.ModuleRatio
		w := sheet.WidthMM * opts.ModuleRatio
		switch opts.ModulePosition {
		case "right":
			regions = append(regions, Region{Role: RoleModule, Rect: geo.Rect{
				MinX: mapRect.MaxX - w, MinY: mapRect.MinY, MaxX: mapRect.MaxX, MaxY: mapRect.MaxY}})
			mapRect.MaxX -= w
		case "left":
			regions = append(regions, Region{Role: RoleModule, Rect: geo.Rect{
				MinX: mapRect.MinX, MinY: mapRect.MinY, MaxX: mapRect.MinX + w, MaxY: mapRect.MaxY}})
			mapRect.MinX += w
		default: // bottom
			regions = append(regions, Region{Role: RoleModule, Rect: geo.Rect{
				MinX: mapRect.MinX, MinY: mapRect.MinY, MaxX: mapRect.MaxX, MaxY: mapRect.MinY + h}})
			mapRect.MinY += h
		}
	}

	if mapRect.Width() < sheet.WidthMM*opts.MinMapFraction ||
		mapRect.Height() < sheet.HeightMM*opts.MinMapFraction {
		return nil, false
	}

	regions = append([]Region{{Role: RoleMap, Rect: mapRect}}, regions...)
	return &Set{Sheet: sheet, Regions: regions}, true
}

// Tile replicates one sheet's region set across a multi-sheet arrangement:
// 1 sheet (1x1), 2 sheets (1x2 side by side), or 4 sheets (2x2). Offsets
// are pure translations of the single-sheet geometry.
func Tile(set *Set, sheets int) ([]*Set, error) {
	var offsets []geo.Point
	w, h := set.Sheet.WidthMM, set.Sheet.HeightMM
	switch sheets {
	case 0, 1:
		offsets = []geo.Point{{X: 0, Y: 0}}
	case 2:
		offsets = []geo.Point{{X: 0, Y: 0}, {X: w, Y: 0}}
	case 4:
		offsets = []geo.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: 0, Y: h}, {X: w, Y: h}}
	default:
		return nil, fmt.Errorf("unsupported sheet count %d (want 1, 2, or 4)", sheets)
	}

	out := make([]*Set, 0, len(offsets))
	for _, off := range offsets {
		t := &Set{Sheet: set.Sheet}
		for _, r := range set.Regions {
			t.Regions = append(t.Regions, Region{Role: r.Role, Rect: geo.Rect{
				MinX: r.Rect.MinX + off.X,
				MinY: r.Rect.MinY + off.Y,
				MaxX: r.Rect.MaxX + off.X,
				MaxY: r.Rect.MaxY + off.Y,
			}})
		}
		out = append(out, t)
	}
	return out, nil
}
