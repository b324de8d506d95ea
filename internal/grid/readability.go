package grid

// Readability rates the on-sheet hex size at the target output resolution.
// It is advisory metadata consumed by downstream layers (font scaling,
// decoration suppression), never a hard failure.
type Readability uint8

const (
	ReadTooSmall   Readability = iota // < 40 px flat-to-flat
	ReadAcceptable                    // 40-79 px
	ReadGood                          // 80-119 px
	ReadIdeal                         // >= 120 px
)

// String returns the readability name.
func (r Readability) String() string {
	switch r {
	case ReadTooSmall:
		return "too-small"
	case ReadAcceptable:
		return "acceptable"
	case ReadGood:
		return "good"
	default:
		return "ideal"
	}
}

// ClassifyReadability buckets a flat-to-flat pixel width.
func ClassifyReadability(px float64) Readability {
	switch {
	case px < 40:
		return ReadTooSmall
	case px < 80:
		return ReadAcceptable
	case px < 120:
		return ReadGood
	default:
		return ReadIdeal
	}
}

// FlatToFlatPx computes the flat-to-flat hex width in output pixels when
// the full grid extent is rendered into a map region of the given width.
func (g *Grid) FlatToFlatPx(mapWidthMM float64, dpi int) float64 {
	dataWidthM := g.Bounds().Width()
	if dataWidthM <= 0 || mapWidthMM <= 0 || dpi <= 0 {
		return 0
	}
	pxWidth := mapWidthMM / 25.4 * float64(dpi)
	return g.FlatToFlatM() / dataWidthM * pxWidth
}
