package export

import (
	"encoding/json"
	"fmt"
	"time"

	"cartograph/internal/pipeline"
	"cartograph/internal/report"
	"cartograph/internal/spec"
	"cartograph/internal/terrain"
)

// HexRecord is one hex in the game-data document.
type HexRecord struct {
	ID         string  `json:"id"`
	Terrain    string  `json:"terrain"`
	ElevationM float64 `json:"elevation_m"`
	SlopeDeg   float64 `json:"slope_deg"`
	Synthetic  bool    `json:"synthetic,omitempty"`
}

// GameData is the machine-readable companion to the printed map: everything
// a rules engine needs without parsing the drawing.
type GameData struct {
	Name        string    `json:"name"`
	Title       string    `json:"title,omitempty"`
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	HexSizeKm   float64 `json:"hex_size_km"`
	HexCount    int     `json:"hex_count"`
	Cols        int     `json:"cols"`
	Rows        int     `json:"rows"`
	Readability string  `json:"readability"`

	TerrainEffects map[string]terrain.Effects `json:"terrain_effects"`
	Hexes          []HexRecord                `json:"hexes"`

	Counters []spec.Counter  `json:"counters,omitempty"`
	OOB      []spec.OOBEntry `json:"oob,omitempty"`

	Warnings []report.Warning `json:"warnings,omitempty"`
}

// BuildGameData assembles the document from a completed run.
func BuildGameData(res *pipeline.Result) *GameData {
	effects := make(map[string]terrain.Effects, len(terrain.Types))
	for _, t := range terrain.Types {
		effects[t.Name()] = terrain.EffectsFor(t)
	}

	hexes := make([]HexRecord, 0, res.Grid.Count())
	for _, h := range res.Grid.Hexes {
		asg := res.Terrain[h.ID]
		hexes = append(hexes, HexRecord{
			ID:         h.ID,
			Terrain:    asg.TypeName,
			ElevationM: asg.ElevationM,
			SlopeDeg:   asg.SlopeDeg,
			Synthetic:  asg.Synthetic,
		})
	}

	return &GameData{
		Name:           res.Spec.Name,
		Title:          res.Spec.Title,
		RunID:          res.Report.RunID,
		GeneratedAt:    time.Now().UTC(),
		HexSizeKm:      res.Spec.HexSizeKm,
		HexCount:       res.Grid.Count(),
		Cols:           res.Grid.Cols(),
		Rows:           res.Grid.Rows(),
		Readability:    res.Readability.String(),
		TerrainEffects: effects,
		Hexes:          hexes,
		Counters:       res.Spec.Counters,
		OOB:            res.Spec.OOBEntries,
		Warnings:       res.Report.Warnings,
	}
}

// GameDataJSON marshals the document.
func GameDataJSON(res *pipeline.Result) ([]byte, error) {
	out, err := json.MarshalIndent(BuildGameData(res), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal game data: %w", err)
	}
	return out, nil
}
