// Package terrain classifies hexes into wargame terrain types from sampled
// elevation, land-use, and coastline evidence. Classification is
// deterministic: the same inputs and seed always yield the same assignment.
package terrain

// Type enumerates the fixed terrain taxonomy.
type Type uint8

const (
	Clear Type = iota
	Forest
	Rough
	Mountain
	Marsh
	Urban
	Water
	Coastal
)

// Types lists every terrain type in declaration order.
var Types = [...]Type{Clear, Forest, Rough, Mountain, Marsh, Urban, Water, Coastal}

// Name returns the lowercase terrain name.
func (t Type) Name() string {
	switch t {
	case Clear:
		return "clear"
	case Forest:
		return "forest"
	case Rough:
		return "rough"
	case Mountain:
		return "mountain"
	case Marsh:
		return "marsh"
	case Urban:
		return "urban"
	case Water:
		return "water"
	case Coastal:
		return "coastal"
	default:
		return "unknown"
	}
}

// Effects holds the game-mechanical properties of a terrain type. This is
// data, not behavior: the core exposes it for game-data export and legends.
type Effects struct {
	MovementCost int    `json:"movement_cost"` // movement points to enter
	DefenseMod   int    `json:"defense_mod"`   // combat modifier for the defender
	BlocksLOS    bool   `json:"blocks_los"`
	Description  string `json:"description"`
}

var effectsTable = map[Type]Effects{
	Clear:    {MovementCost: 1, DefenseMod: 0, BlocksLOS: false, Description: "Open terrain, no obstacles"},
	Forest:   {MovementCost: 2, DefenseMod: 1, BlocksLOS: true, Description: "Wooded terrain, limited visibility"},
	Rough:    {MovementCost: 2, DefenseMod: 1, BlocksLOS: false, Description: "Uneven ground, scrub, broken terrain"},
	Mountain: {MovementCost: 3, DefenseMod: 2, BlocksLOS: true, Description: "High elevation, steep slopes"},
	Marsh:    {MovementCost: 3, DefenseMod: 0, BlocksLOS: false, Description: "Wetlands, bogs, swamps"},
	Urban:    {MovementCost: 1, DefenseMod: 2, BlocksLOS: true, Description: "Cities, towns, built-up areas"},
	Water:    {MovementCost: 99, DefenseMod: 0, BlocksLOS: false, Description: "Impassable except by naval or amphibious movement"},
	Coastal:  {MovementCost: 2, DefenseMod: 0, BlocksLOS: false, Description: "Shoreline hex, part land part water"},
}

// EffectsFor returns the static effects for a terrain type.
func EffectsFor(t Type) Effects {
	if e, ok := effectsTable[t]; ok {
		return e
	}
	return effectsTable[Clear]
}

// Assignment is the classification result for one hex.
type Assignment struct {
	Type       Type    `json:"-"`
	TypeName   string  `json:"terrain"`
	ElevationM float64 `json:"elevation_m"`
	SlopeDeg   float64 `json:"slope_deg"`
	Synthetic  bool    `json:"synthetic,omitempty"` // true when source data was unavailable
}
