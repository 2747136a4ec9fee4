package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
)

// Epsilon absorbs floating-point rounding introduced by prior layout
// computations. Comparisons throughout the engine use this tolerance.
const Epsilon = 1e-6

// Point is a normalized position inside a cluster's unit square.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a physical extent in pixels, as reported by the presentation layer.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Panel is an immutable normalized rectangle describing one story's region
// within its cluster's unit square. Origin components lie in [0,1], extents
// in (0,1], and the panel never exceeds the square.
type Panel struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FullPanel covers the entire unit square. A cluster with a single story
// always collapses to this panel.
var FullPanel = Panel{X: 0, Y: 0, Width: 1, Height: 1}

// NewPanel validates and constructs a panel. Out-of-domain values fail fast
// rather than producing silently-wrong geometry downstream.
func NewPanel(x, y, width, height float64) (Panel, error) {
	p := Panel{X: x, Y: y, Width: width, Height: height}
	if err := p.Validate(); err != nil {
		return Panel{}, err
	}
	return p, nil
}

// Validate checks the panel against the unit square domain.
func (p Panel) Validate() error {
	if p.X < -Epsilon || p.Y < -Epsilon {
		return fmt.Errorf("%w: origin (%v, %v)", ErrInvalidPanel, p.X, p.Y)
	}
	if p.Width <= Epsilon || p.Height <= Epsilon {
		return fmt.Errorf("%w: extent (%v, %v)", ErrInvalidPanel, p.Width, p.Height)
	}
	if p.Right() > 1+Epsilon || p.Bottom() > 1+Epsilon {
		return fmt.Errorf("%w: extends to (%v, %v)", ErrInvalidPanel, p.Right(), p.Bottom())
	}
	return nil
}

// Right returns the x coordinate of the panel's right edge.
func (p Panel) Right() float64 { return p.X + p.Width }

// Bottom returns the y coordinate of the panel's bottom edge.
func (p Panel) Bottom() float64 { return p.Y + p.Height }

// Area returns the normalized area of the panel.
func (p Panel) Area() float64 { return p.Width * p.Height }

// Center returns the panel's midpoint.
func (p Panel) Center() Point {
	return Point{X: p.X + p.Width/2, Y: p.Y + p.Height/2}
}

// Contains reports whether the point lies inside the panel, edges included.
// Boundary points therefore match every adjacent panel; ResolveTarget breaks
// those ties deterministically.
func (p Panel) Contains(pt Point) bool {
	return pt.X >= p.X-Epsilon && pt.X <= p.Right()+Epsilon &&
		pt.Y >= p.Y-Epsilon && pt.Y <= p.Bottom()+Epsilon
}

// Equal reports whether two panels coincide within tolerance.
func (p Panel) Equal(o Panel) bool {
	return scalar.EqualWithinAbs(p.X, o.X, Epsilon) &&
		scalar.EqualWithinAbs(p.Y, o.Y, Epsilon) &&
		scalar.EqualWithinAbs(p.Width, o.Width, Epsilon) &&
		scalar.EqualWithinAbs(p.Height, o.Height, Epsilon)
}

// originLess orders panels by origin, top-most then left-most. Used both for
// drop-target tie-breaking and for the repack ordering policy.
func originLess(a, b Panel) bool {
	if !scalar.EqualWithinAbs(a.Y, b.Y, Epsilon) {
		return a.Y < b.Y
	}
	return a.X < b.X-Epsilon
}
