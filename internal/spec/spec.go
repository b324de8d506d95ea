// Package spec defines the map specification the core consumes. Specs are
// decoded from JSON by the front end and validated here before any
// rendering starts; the core treats a validated spec as read-only.
package spec

import (
	"encoding/json"
	"fmt"
	"os"

	"cartograph/internal/geo"
	"cartograph/internal/layout"
	"cartograph/internal/report"
)

// Counter is a renderable unit token bound to a target hex.
type Counter struct {
	Designation string `json:"designation"`
	UnitType    string `json:"unit_type"` // infantry, armor, artillery, ...
	Echelon     string `json:"echelon"`   // squad .. army
	HexID       string `json:"hex_id"`
	Affiliation string `json:"affiliation"` // friendly, hostile, neutral

	CombatFactor   int `json:"combat_factor"`
	DefenseFactor  int `json:"defense_factor,omitempty"`
	MovementFactor int `json:"movement_factor"`

	Reduced     bool `json:"reduced,omitempty"`
	Disrupted   bool `json:"disrupted,omitempty"`
	OutOfSupply bool `json:"out_of_supply,omitempty"`
}

// MovementPlan is a movement arrow along a hex path.
type MovementPlan struct {
	UnitDesignation string   `json:"unit_designation"`
	HexPath         []string `json:"hex_path"`
	Affiliation     string   `json:"affiliation"`
}

// OOBUnit is one unit entry in an Order of Battle formation.
type OOBUnit struct {
	Designation    string `json:"designation"`
	UnitType       string `json:"unit_type"`
	Echelon        string `json:"echelon"`
	CombatFactor   int    `json:"combat_factor"`
	MovementFactor int    `json:"movement_factor"`
	SetupHex       string `json:"setup_hex,omitempty"`
}

// OOBEntry is a formation in the Order of Battle panel.
type OOBEntry struct {
	Affiliation string    `json:"affiliation"`
	Formation   string    `json:"formation"`
	Units       []OOBUnit `json:"units"`
	SetupTurn   int       `json:"setup_turn,omitempty"`
	SetupZone   string    `json:"setup_zone,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// ModulePanel selects a game-module table for a bottom/side panel.
type ModulePanel struct {
	Kind  string `json:"kind"` // crt, tec, sequence_of_play, custom
	Title string `json:"title,omitempty"`

	// Custom table content, used when Kind is "custom".
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

// MapSpec is the complete configuration for one map generation run.
type MapSpec struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Scenario string `json:"scenario,omitempty"`

	BBox geo.BoundingBox `json:"bbox"`

	DesignerStyle string  `json:"designer_style"` // simonitch, simonsen, kibler
	HexSizeKm     float64 `json:"hex_size_km"`
	Seed          int64   `json:"seed"`

	SheetSize   string `json:"sheet_size"`  // "22x34" or "WxH" inches
	Sheets      int    `json:"sheets"`      // 1, 2, or 4
	Orientation string `json:"orientation"` // landscape, portrait
	DPI         int    `json:"dpi"`

	FontScale       float64 `json:"font_scale"`
	CounterHexRatio float64 `json:"counter_hex_ratio"`
	MinCounterPx    float64 `json:"min_counter_px"`

	ShowHillshade   bool `json:"show_hillshade"`
	ShowRivers      bool `json:"show_rivers"`
	ShowRoads       bool `json:"show_roads"`
	ShowCities      bool `json:"show_cities"`
	ShowPorts       bool `json:"show_ports"`
	ShowHexNumbers  bool `json:"show_hex_numbers"`
	ShowLegend      bool `json:"show_legend"`
	ShowScaleBar    bool `json:"show_scale_bar"`
	ShowCompass     bool `json:"show_compass"`
	SyntheticRelief bool `json:"synthetic_relief,omitempty"` // use noise relief when no raster

	Counters      []Counter      `json:"counters,omitempty"`
	MovementPlans []MovementPlan `json:"movement_plans,omitempty"`

	ShowOOBPanel     bool          `json:"show_oob_panel"`
	OOBPosition      string        `json:"oob_position,omitempty"`
	OOBRatio         float64       `json:"oob_ratio,omitempty"`
	OOBEntries       []OOBEntry    `json:"oob_entries,omitempty"`
	ShowModulePanels bool          `json:"show_module_panels"`
	ModulePosition   string        `json:"module_position,omitempty"`
	ModuleRatio      float64       `json:"module_ratio,omitempty"`
	ModulePanels     []ModulePanel `json:"module_panels,omitempty"`
}

// Default returns a spec with the standard knobs filled in. Callers still
// need a bbox and a name.
func Default() MapSpec {
	return MapSpec{
		DesignerStyle:   "simonitch",
		HexSizeKm:       10,
		SheetSize:       "22x34",
		Sheets:          1,
		Orientation:     "landscape",
		DPI:             150,
		FontScale:       1.0,
		CounterHexRatio: 0.65,
		MinCounterPx:    24,
		ShowHillshade:   true,
		ShowRivers:      true,
		ShowCities:      true,
		ShowPorts:       true,
		ShowHexNumbers:  true,
		ShowLegend:      true,
		ShowScaleBar:    true,
		ShowCompass:     true,
		OOBPosition:     "right",
		OOBRatio:        0.25,
		ModulePosition:  "bottom",
		ModuleRatio:     0.20,
	}
}

// Load reads and validates a spec file. Unknown fields are rejected so typos
// surface as configuration errors instead of silently ignored toggles.
func Load(path string) (*MapSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spec: %w", err)
	}
	defer f.Close()

	s := Default()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode spec %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every invariant that must hold before rendering starts.
// Violations are fatal ConfigurationErrors.
func (s *MapSpec) Validate() error {
	if err := s.BBox.Validate(); err != nil {
		return report.Configf("bbox", "%v", err)
	}
	if s.HexSizeKm <= 0 {
		return report.Configf("hex_size_km", "must be positive, got %g", s.HexSizeKm)
	}
	if s.DPI <= 0 {
		return report.Configf("dpi", "must be positive, got %d", s.DPI)
	}
	if s.CounterHexRatio <= 0 || s.CounterHexRatio > 1.0 {
		return report.Configf("counter_hex_ratio", "must be in (0, 1], got %g", s.CounterHexRatio)
	}
	if s.FontScale <= 0 {
		return report.Configf("font_scale", "must be positive, got %g", s.FontScale)
	}
	switch s.DesignerStyle {
	case "simonitch", "simonsen", "kibler":
	default:
		return report.Configf("designer_style", "unknown style %q", s.DesignerStyle)
	}
	if _, err := s.Sheet(); err != nil {
		return report.Configf("sheet_size", "%v", err)
	}
	switch s.Sheets {
	case 1, 2, 4:
	default:
		return report.Configf("sheets", "must be 1, 2, or 4, got %d", s.Sheets)
	}
	if s.ShowOOBPanel && (s.OOBRatio <= 0 || s.OOBRatio >= 1) {
		return report.Configf("oob_ratio", "must be in (0, 1), got %g", s.OOBRatio)
	}
	if s.ShowModulePanels && (s.ModuleRatio <= 0 || s.ModuleRatio >= 1) {
		return report.Configf("module_ratio", "must be in (0, 1), got %g", s.ModuleRatio)
	}
	return nil
}

// Sheet resolves the configured sheet size for a single sheet of the
// arrangement.
func (s *MapSpec) Sheet() (layout.Sheet, error) {
	return layout.SheetFromName(s.SheetSize, s.Orientation, 1)
}

// LayoutOptions maps the panel toggles onto the layout engine.
func (s *MapSpec) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	opts.OOB = s.ShowOOBPanel && len(s.OOBEntries) > 0
	if s.OOBPosition != "" {
		opts.OOBPosition = s.OOBPosition
	}
	if s.OOBRatio > 0 {
		opts.OOBRatio = s.OOBRatio
	}
	opts.Modules = s.ShowModulePanels && len(s.ModulePanels) > 0
	if s.ModulePosition != "" {
		opts.ModulePosition = s.ModulePosition
	}
	if s.ModuleRatio > 0 {
		opts.ModuleRatio = s.ModuleRatio
	}
	return opts
}

// OccupiedHexes returns the set of hex IDs carrying at least one counter.
// The compositor folds this into the render context before the label layer
// runs.
func (s *MapSpec) OccupiedHexes() map[string]bool {
	if len(s.Counters) == 0 {
		return nil
	}
	out := make(map[string]bool, len(s.Counters))
	for _, c := range s.Counters {
		if c.HexID != "" {
			out[c.HexID] = true
		}
	}
	return out
}
