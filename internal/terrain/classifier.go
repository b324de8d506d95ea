package terrain

import "math/rand/v2"

// Signals are the per-hex inputs to the classification decision table.
type Signals struct {
	ElevationM    float64
	SlopeDeg      float64
	IsUrban       bool
	IsForest      bool
	IsMarsh       bool
	WaterFraction float64 // fraction of hex area covered by water geometry
	WaterDistance int     // hex steps to the nearest water-bearing hex; -1 unknown
}

// Classifier maps signals to a terrain type. Conflicting signals resolve by
// the fixed precedence Water > Mountain > Urban > Forest > Marsh > Rough >
// Coastal > Clear.
type Classifier struct {
	MountainSlopeDeg  float64
	RoughSlopeDeg     float64
	MountainElevM     float64
	WaterMajorityFrac float64
	CoastalDistSteps  int
}

// DefaultClassifier returns thresholds tuned for European operational maps.
func DefaultClassifier() Classifier {
	return Classifier{
		MountainSlopeDeg:  20,
		RoughSlopeDeg:     8,
		MountainElevM:     800,
		WaterMajorityFrac: 0.5,
		CoastalDistSteps:  1,
	}
}

// Classify applies the decision table. The rng must be the deterministic
// per-hex generator from HexRNG so re-runs classify identically.
func (c Classifier) Classify(sig Signals, rng *rand.Rand) Type {
	if sig.WaterFraction >= c.WaterMajorityFrac {
		return Water
	}
	if sig.SlopeDeg > c.MountainSlopeDeg {
		return Mountain
	}
	if sig.ElevationM > c.MountainElevM && sig.SlopeDeg > 5 {
		return Mountain
	}
	if sig.IsUrban {
		return Urban
	}
	if sig.IsForest {
		return Forest
	}
	if sig.IsMarsh {
		return Marsh
	}
	if sig.SlopeDeg > c.RoughSlopeDeg {
		return Rough
	}
	if sig.WaterFraction > 0 {
		return Coastal
	}
	if sig.WaterDistance >= 0 && sig.WaterDistance <= c.CoastalDistSteps && sig.ElevationM < 50 {
		return Coastal
	}

	// No decisive signal: deterministic variety split by elevation band,
	// roughly matching European landcover shares.
	roll := rng.Float64()
	switch {
	case sig.ElevationM > 400:
		if roll < 0.50 {
			return Forest
		}
		if roll < 0.70 {
			return Rough
		}
	case sig.ElevationM > 150:
		if roll < 0.35 {
			return Forest
		}
		if roll < 0.50 {
			return Rough
		}
	default:
		if roll < 0.20 {
			return Forest
		}
		if roll < 0.30 {
			return Rough
		}
		if sig.ElevationM < 20 && roll > 0.90 {
			return Marsh
		}
	}
	return Clear
}
