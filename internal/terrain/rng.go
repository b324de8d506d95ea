package terrain

import (
	"hash/fnv"
	"math/rand/v2"
)

// HexRNG builds a deterministic generator keyed by the global map seed and
// a hex ID. Rendering layers reuse the same seeding for decoration density
// and hatch jitter, so a hex always draws the same "random" choices.
func HexRNG(mapSeed int64, hexID string) *rand.Rand {
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(mapSeed >> (8 * i))
	}
	h.Write(buf[:])
	h.Write([]byte(hexID))
	return rand.New(rand.NewPCG(h.Sum64(), 0x9e3779b97f4a7c15))
}
