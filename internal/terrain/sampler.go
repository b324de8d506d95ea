package terrain

import (
	"math"

	"cartograph/internal/geo"
	"cartograph/internal/grid"
	"cartograph/internal/report"
)

// WaterEvidence exposes the coastline clipper's per-hex water coverage.
// A nil WaterEvidence means no water geometry was supplied.
type WaterEvidence interface {
	WaterFraction(hexID string) float64
}

// Sampler draws deterministic sample points inside every hex, queries the
// elevation and land-use providers, and classifies each hex.
type Sampler struct {
	Elev       ElevationProvider // nil tolerated: Clear fallback with warning
	Land       *LandUse
	Seed       int64
	Classifier Classifier
}

// NewSampler builds a sampler with default classifier thresholds.
func NewSampler(elev ElevationProvider, land *LandUse, seed int64) *Sampler {
	return &Sampler{Elev: elev, Land: land, Seed: seed, Classifier: DefaultClassifier()}
}

// ClassifyGrid assigns exactly one terrain type to every hex. Missing
// elevation data never fails a run: affected hexes fall back to land-use or
// Clear, are flagged synthetic, and a single run warning is recorded.
func (s *Sampler) ClassifyGrid(g *grid.Grid, water WaterEvidence, rep *report.Report) map[string]Assignment {
	waterFrac := make(map[string]float64, g.Count())
	if water != nil {
		for _, h := range g.Hexes {
			waterFrac[h.ID] = water.WaterFraction(h.ID)
		}
	}
	waterDist := waterDistances(g, waterFrac)

	out := make(map[string]Assignment, g.Count())
	missing := 0

	for _, h := range g.Hexes {
		elev, slope, ok := s.sampleElevation(g, h)
		if !ok {
			missing++
		}

		sig := Signals{
			ElevationM:    elev,
			SlopeDeg:      slope,
			IsUrban:       s.Land.IsUrban(h.ID),
			IsForest:      s.Land.IsForest(h.ID),
			IsMarsh:       s.Land.IsMarsh(h.ID),
			WaterFraction: waterFrac[h.ID],
			WaterDistance: waterDist[h.ID],
		}

		var t Type
		if ok {
			t = s.Classifier.Classify(sig, HexRNG(s.Seed, h.ID))
		} else {
			// Without elevation the variety split is not meaningful; keep
			// the decisive signals and default the rest to Clear.
			t = s.fallbackClassify(sig)
		}

		out[h.ID] = Assignment{
			Type:       t,
			TypeName:   t.Name(),
			ElevationM: round1(elev),
			SlopeDeg:   round1(slope),
			Synthetic:  !ok,
		}
	}

	if missing > 0 {
		rep.SyntheticHexes = missing
		rep.Warn(report.WarnDataUnavailable,
			"no elevation data for %d of %d hexes: flat synthetic terrain used", missing, g.Count())
	}
	return out
}

// fallbackClassify keeps water, land-use, and coastline evidence but skips
// elevation-driven rules. The documented default is Clear.
func (s *Sampler) fallbackClassify(sig Signals) Type {
	c := s.Classifier
	switch {
	case sig.WaterFraction >= c.WaterMajorityFrac:
		return Water
	case sig.IsUrban:
		return Urban
	case sig.IsForest:
		return Forest
	case sig.IsMarsh:
		return Marsh
	case sig.WaterFraction > 0:
		return Coastal
	default:
		return Clear
	}
}

// sampleElevation queries the provider at the hex centroid plus six
// symmetric offsets at 60% of the radius toward each vertex. Returns the
// mean elevation and a slope estimate from the spread across the hex.
func (s *Sampler) sampleElevation(g *grid.Grid, h *grid.Hex) (elevM, slopeDeg float64, ok bool) {
	if s.Elev == nil {
		return 0, 0, false
	}

	pts := samplePoints(h)
	var sum, lo, hi float64
	n := 0
	for _, p := range pts {
		lon, lat := g.Frame.Unproject(p)
		m, sampled := s.Elev.SampleAt(lon, lat)
		if !sampled {
			continue
		}
		if n == 0 {
			lo, hi = m, m
		} else {
			lo = math.Min(lo, m)
			hi = math.Max(hi, m)
		}
		sum += m
		n++
	}
	if n == 0 {
		return 0, 0, false
	}

	elevM = sum / float64(n)
	// Rise over the sampled span approximates slope across the hex.
	run := 2 * 0.6 * g.RadiusM
	slopeDeg = math.Atan2(hi-lo, run) * 180 / math.Pi
	return elevM, slopeDeg, true
}

// samplePoints is the fixed deterministic pattern: centroid plus offsets
// toward each of the six vertices.
func samplePoints(h *grid.Hex) []geo.Point {
	pts := make([]geo.Point, 0, 7)
	pts = append(pts, h.Center)
	for _, v := range h.Vertices {
		pts = append(pts, geo.Point{
			X: h.Center.X + (v.X-h.Center.X)*0.6,
			Y: h.Center.Y + (v.Y-h.Center.Y)*0.6,
		})
	}
	return pts
}

// waterDistances runs a BFS from every water-bearing hex, returning hex
// step counts. Hexes unreachable from water (or maps with no water at all)
// get -1.
func waterDistances(g *grid.Grid, waterFrac map[string]float64) map[string]int {
	dist := make(map[string]int, g.Count())
	var queue []*grid.Hex
	for _, h := range g.Hexes {
		if waterFrac[h.ID] > 0 {
			dist[h.ID] = 0
			queue = append(queue, h)
		} else {
			dist[h.ID] = -1
		}
	}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(h) {
			if dist[n.ID] == -1 {
				dist[n.ID] = dist[h.ID] + 1
				queue = append(queue, n)
			}
		}
	}
	return dist
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
