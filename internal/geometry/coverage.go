package geometry

import (
	"sort"

	"gonum.org/v1/gonum/floats/scalar"
)

// HaveFullCoverage reports whether the panel set exactly tiles the unit
// square: zero gap and zero overlap, within Epsilon.
//
// The check sweeps the grid induced by every panel's x and y edges. Each
// grid cell must be covered by exactly one panel. It never panics and
// returns false on any malformed input; callers use it as a debug-time
// assertion because the invariant is enforced constructively upstream.
func HaveFullCoverage(panels []Panel) bool {
	if len(panels) == 0 {
		return false
	}
	for _, p := range panels {
		if p.Validate() != nil {
			return false
		}
	}

	xs := cutLines(panels, func(p Panel) (float64, float64) { return p.X, p.Right() })
	ys := cutLines(panels, func(p Panel) (float64, float64) { return p.Y, p.Bottom() })

	// The sweep grid must span the whole square or a border gap exists.
	if !scalar.EqualWithinAbs(xs[0], 0, Epsilon) || !scalar.EqualWithinAbs(xs[len(xs)-1], 1, Epsilon) {
		return false
	}
	if !scalar.EqualWithinAbs(ys[0], 0, Epsilon) || !scalar.EqualWithinAbs(ys[len(ys)-1], 1, Epsilon) {
		return false
	}

	for yi := 0; yi < len(ys)-1; yi++ {
		cy := (ys[yi] + ys[yi+1]) / 2
		for xi := 0; xi < len(xs)-1; xi++ {
			cx := (xs[xi] + xs[xi+1]) / 2
			covered := 0
			for _, p := range panels {
				if cx > p.X && cx < p.Right() && cy > p.Y && cy < p.Bottom() {
					covered++
				}
			}
			if covered != 1 {
				return false
			}
		}
	}
	return true
}

// CoveredArea returns the summed area of the panels without overlap
// deduplication. Useful in assertions alongside HaveFullCoverage.
func CoveredArea(panels []Panel) float64 {
	var total float64
	for _, p := range panels {
		total += p.Area()
	}
	return total
}

// cutLines collects the deduplicated, sorted sweep boundaries produced by
// edge extraction, always including 0 and 1.
func cutLines(panels []Panel, edges func(Panel) (float64, float64)) []float64 {
	raw := make([]float64, 0, 2*len(panels)+2)
	raw = append(raw, 0, 1)
	for _, p := range panels {
		lo, hi := edges(p)
		raw = append(raw, lo, hi)
	}
	sort.Float64s(raw)

	out := raw[:1]
	for _, v := range raw[1:] {
		if !scalar.EqualWithinAbs(v, out[len(out)-1], Epsilon) {
			out = append(out, v)
		}
	}
	return out
}
