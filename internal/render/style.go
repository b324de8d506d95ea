// Package render turns a classified hex grid into a layered scene of
// drawable elements. Layers run in a fixed order and communicate through the
// shared Context, so later layers (labels, counters) can route around what
// earlier layers placed.
package render

import (
	"fmt"

	"cartograph/internal/terrain"
)

// TextRole selects a typography slot in a style. Sizes are in millimeters
// before the spec's font_scale is applied.
type TextRole string

const (
	RoleTitle     TextRole = "title"
	RoleSubtitle  TextRole = "subtitle"
	RoleHexNumber TextRole = "hex_number"
	RoleCityLabel TextRole = "city_label"
	RoleLegend    TextRole = "legend"
	RoleCounter   TextRole = "counter"
	RolePanel     TextRole = "panel"
)

// HillshadeParams is the light model for per-hex relief shading.
type HillshadeParams struct {
	AzimuthDeg  float64 `json:"azimuth_deg"`
	AltitudeDeg float64 `json:"altitude_deg"`
	Alpha       float64 `json:"alpha"` // max shadow opacity
}

// Style is one designer palette. Styles are immutable; Scaled returns an
// adjusted copy rather than mutating in place.
type Style struct {
	Name string `json:"name"`

	TerrainFill  map[terrain.Type]string `json:"terrain_fill"`
	TerrainHatch map[terrain.Type]string `json:"terrain_hatch"` // pattern name, "" for none

	HexEdgeColor  string  `json:"hex_edge_color"`
	HexEdgeMM     float64 `json:"hex_edge_mm"`
	RiverColor    string  `json:"river_color"`
	RoadColor     string  `json:"road_color"`
	RailColor     string  `json:"rail_color"`
	LineBaseMM    float64 `json:"line_base_mm"`
	LinePerRankMM float64 `json:"line_per_rank_mm"`
	SettlementInk string  `json:"settlement_ink"`
	LabelInk      string  `json:"label_ink"`
	LabelBacking  string  `json:"label_backing"`
	PanelFill     string  `json:"panel_fill"`
	PanelEdge     string  `json:"panel_edge"`
	OccupiedDimTo float64 `json:"occupied_dim_to"` // decoration alpha on occupied hexes

	CounterFill map[string]string `json:"counter_fill"` // by affiliation
	CounterInk  string            `json:"counter_ink"`

	Hillshade HillshadeParams `json:"hillshade"`

	fonts map[TextRole]float64
}

// FontMM returns the base size for a typography role.
func (s *Style) FontMM(role TextRole) float64 {
	if v, ok := s.fonts[role]; ok {
		return v
	}
	return 3.0
}

// Scaled returns a copy of the style with every typography slot multiplied
// by factor. Palettes are shared with the receiver.
func (s *Style) Scaled(factor float64) *Style {
	out := *s
	out.fonts = make(map[TextRole]float64, len(s.fonts))
	for role, mm := range s.fonts {
		out.fonts[role] = mm * factor
	}
	return &out
}

// MinCounterFontMM is the legibility floor for counter text. Counter type
// scales with the token box, but never below this size, even when the box
// itself has been clamped to fit the hex.
const MinCounterFontMM = 1.5

var defaultFonts = map[TextRole]float64{
	RoleTitle:     9.0,
	RoleSubtitle:  5.0,
	RoleHexNumber: 2.2,
	RoleCityLabel: 3.2,
	RoleLegend:    2.8,
	RoleCounter:   2.0,
	RolePanel:     2.6,
}

var styles = map[string]*Style{
	// Muted naturalistic palette, heavy hillshade, restrained linework.
	"simonitch": {
		Name: "simonitch",
		TerrainFill: map[terrain.Type]string{
			terrain.Clear:    "#e8e4cf",
			terrain.Forest:   "#a8c090",
			terrain.Rough:    "#d9cdae",
			terrain.Mountain: "#c2ab8e",
			terrain.Marsh:    "#c5d6c0",
			terrain.Urban:    "#c9b8b0",
			terrain.Water:    "#a9c7dd",
			terrain.Coastal:  "#ddd9bd",
		},
		TerrainHatch: map[terrain.Type]string{
			terrain.Forest:   "trees",
			terrain.Rough:    "scatter",
			terrain.Mountain: "ridges",
			terrain.Marsh:    "tussock",
			terrain.Urban:    "blocks",
		},
		HexEdgeColor: "#8a8670", HexEdgeMM: 0.12,
		RiverColor: "#5f93bd", RoadColor: "#9b5a3c", RailColor: "#444444",
		LineBaseMM: 0.25, LinePerRankMM: 0.12,
		SettlementInk: "#2e2a24", LabelInk: "#2e2a24", LabelBacking: "#f5f2e4",
		PanelFill: "#f5f2e4", PanelEdge: "#5a5444",
		OccupiedDimTo: 0.35,
		CounterFill:   map[string]string{"friendly": "#4f6d8f", "hostile": "#8f4f4f", "neutral": "#7d7d6a"},
		CounterInk:    "#f2efe2",
		Hillshade:     HillshadeParams{AzimuthDeg: 315, AltitudeDeg: 45, Alpha: 0.30},
	},
	// Flat high-contrast fills, no relief, bold geometric symbols.
	"simonsen": {
		Name: "simonsen",
		TerrainFill: map[terrain.Type]string{
			terrain.Clear:    "#f2efdd",
			terrain.Forest:   "#6faa5e",
			terrain.Rough:    "#d8b65a",
			terrain.Mountain: "#a57b45",
			terrain.Marsh:    "#8fbfae",
			terrain.Urban:    "#d06a4e",
			terrain.Water:    "#4f8fc4",
			terrain.Coastal:  "#e4dec0",
		},
		TerrainHatch: map[terrain.Type]string{
			terrain.Marsh: "tussock",
			terrain.Urban: "blocks",
		},
		HexEdgeColor: "#333333", HexEdgeMM: 0.18,
		RiverColor: "#2f6fae", RoadColor: "#7a2f1d", RailColor: "#222222",
		LineBaseMM: 0.35, LinePerRankMM: 0.15,
		SettlementInk: "#111111", LabelInk: "#111111", LabelBacking: "#ffffff",
		PanelFill: "#ffffff", PanelEdge: "#111111",
		OccupiedDimTo: 0.30,
		CounterFill:   map[string]string{"friendly": "#3a5f92", "hostile": "#a23535", "neutral": "#6d6d5c"},
		CounterInk:    "#ffffff",
		Hillshade:     HillshadeParams{AzimuthDeg: 315, AltitudeDeg: 45, Alpha: 0},
	},
	// Warm hand-drawn look, soft relief, decorated terrain.
	"kibler": {
		Name: "kibler",
		TerrainFill: map[terrain.Type]string{
			terrain.Clear:    "#efe6c8",
			terrain.Forest:   "#9cb87f",
			terrain.Rough:    "#dcc79a",
			terrain.Mountain: "#bf9d72",
			terrain.Marsh:    "#bcd2b4",
			terrain.Urban:    "#d4b49a",
			terrain.Water:    "#9cc0d4",
			terrain.Coastal:  "#e6dcb4",
		},
		TerrainHatch: map[terrain.Type]string{
			terrain.Forest:   "trees",
			terrain.Rough:    "scatter",
			terrain.Mountain: "peaks",
			terrain.Marsh:    "tussock",
			terrain.Urban:    "blocks",
		},
		HexEdgeColor: "#7a6f55", HexEdgeMM: 0.14,
		RiverColor: "#6492b4", RoadColor: "#8c5a36", RailColor: "#3c3c3c",
		LineBaseMM: 0.28, LinePerRankMM: 0.12,
		SettlementInk: "#3a3226", LabelInk: "#3a3226", LabelBacking: "#f2ead2",
		PanelFill: "#f2ead2", PanelEdge: "#6b5f45",
		OccupiedDimTo: 0.40,
		CounterFill:   map[string]string{"friendly": "#4a6a54", "hostile": "#8a4a3a", "neutral": "#77705c"},
		CounterInk:    "#f0ead6",
		Hillshade:     HillshadeParams{AzimuthDeg: 300, AltitudeDeg: 40, Alpha: 0.22},
	},
}

func init() {
	for _, s := range styles {
		s.fonts = defaultFonts
	}
}

// StyleByName returns one of the built-in designer styles.
func StyleByName(name string) (*Style, error) {
	s, ok := styles[name]
	if !ok {
		return nil, fmt.Errorf("unknown designer style %q", name)
	}
	return s, nil
}

// StyleNames lists the available designer styles.
func StyleNames() []string {
	return []string{"simonitch", "simonsen", "kibler"}
}
