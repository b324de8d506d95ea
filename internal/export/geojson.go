// Package export serializes completed runs: GeoJSON for GIS tooling, a
// game-data document for rules engines, and SQLite for the preview server.
package export

import (
	"encoding/json"
	"fmt"

	"cartograph/internal/pipeline"
)

type geoJSONFeature struct {
	Type       string         `json:"type"`
	Geometry   geoJSONGeom    `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geoJSONGeom struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// GeoJSON renders every hex as a Polygon feature in WGS84 lon/lat with its
// terrain classification attached. Rings are closed per RFC 7946.
func GeoJSON(res *pipeline.Result) ([]byte, error) {
	fc := geoJSONCollection{
		Type:     "FeatureCollection",
		Features: make([]geoJSONFeature, 0, res.Grid.Count()),
	}
	for _, h := range res.Grid.Hexes {
		ring := make([][2]float64, 0, len(h.Vertices)+1)
		for _, v := range h.Vertices {
			lon, lat := res.Grid.Frame.Unproject(v)
			ring = append(ring, [2]float64{lon, lat})
		}
		ring = append(ring, ring[0])

		asg := res.Terrain[h.ID]
		props := map[string]any{
			"hex":         h.ID,
			"terrain":     asg.TypeName,
			"elevation_m": asg.ElevationM,
			"slope_deg":   asg.SlopeDeg,
		}
		if asg.Synthetic {
			props["synthetic"] = true
		}
		if res.Coast != nil {
			if wf := res.Coast.WaterFraction(h.ID); wf > 0 {
				props["water_fraction"] = wf
			}
		}
		fc.Features = append(fc.Features, geoJSONFeature{
			Type: "Feature",
			Geometry: geoJSONGeom{
				Type:        "Polygon",
				Coordinates: [][][2]float64{ring},
			},
			Properties: props,
		})
	}
	out, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return out, nil
}
