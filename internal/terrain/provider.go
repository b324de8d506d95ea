package terrain

import opensimplex "github.com/ojrac/opensimplex-go"

// ElevationProvider samples resolved elevation rasters at a geographic
// point. Implementations are supplied by external collaborators; ok is
// false when no data covers the point.
type ElevationProvider interface {
	SampleAt(lon, lat float64) (meters float64, ok bool)
}

// LandUse carries per-hex land-use evidence pre-resolved by collaborators.
// Keys are hex display numbers.
type LandUse struct {
	Urban  map[string]bool
	Forest map[string]bool
	Marsh  map[string]bool
}

// IsUrban, IsForest, IsMarsh report land-use flags for a hex. A nil LandUse
// reports false for everything.
func (l *LandUse) IsUrban(hexID string) bool  { return l != nil && l.Urban[hexID] }
func (l *LandUse) IsForest(hexID string) bool { return l != nil && l.Forest[hexID] }
func (l *LandUse) IsMarsh(hexID string) bool  { return l != nil && l.Marsh[hexID] }

// SyntheticElevation is the documented fallback when no elevation raster is
// available. It layers simplex noise into plausible relief so classification
// and hillshading still have something to work with. Hexes classified from
// it are flagged synthetic in the output metadata.
type SyntheticElevation struct {
	noise opensimplex.Noise
}

// NewSyntheticElevation builds the fallback provider for a map seed.
func NewSyntheticElevation(seed int64) *SyntheticElevation {
	return &SyntheticElevation{noise: opensimplex.NewNormalized(seed)}
}

// SampleAt always succeeds. Elevation ranges roughly 0-1200 m with gentle
// multi-octave variation.
func (s *SyntheticElevation) SampleAt(lon, lat float64) (float64, bool) {
	freq := 3.0
	amp := 1.0
	sum := 0.0
	norm := 0.0
	for o := 0; o < 4; o++ {
		sum += amp * s.noise.Eval2(lon*freq, lat*freq)
		norm += amp
		freq *= 2
		amp *= 0.5
	}
	v := sum / norm // 0..1
	return v * 1200, true
}
