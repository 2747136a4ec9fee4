package geometry

import "math"

// ToGridValue rounds a raw pixel measurement to the nearest multiple of the
// layout quantum. Keeping panel boundaries grid-aligned avoids animation
// jitter from sub-pixel rounding. A non-positive quantum disables snapping.
func ToGridValue(v, quantum float64) float64 {
	if quantum <= 0 {
		return v
	}
	return math.Round(v/quantum) * quantum
}
