package geometry

import (
	"fmt"
	"math"
	"sort"
)

// Placement binds one story to its panel.
type Placement struct {
	StoryID string `json:"story_id"`
	Panel   Panel  `json:"panel"`
}

// Assignment is a cluster's story-to-panel mapping, in cluster order. The
// order is significant: the layout classifier walks it when computing
// title-bar insets.
type Assignment []Placement

// Clone returns an independent copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	copy(out, a)
	return out
}

// Panels extracts just the panel rectangles, preserving order.
func (a Assignment) Panels() []Panel {
	out := make([]Panel, len(a))
	for i, pl := range a {
		out[i] = pl.Panel
	}
	return out
}

// Find returns the index of a story's placement, or -1.
func (a Assignment) Find(storyID string) int {
	for i, pl := range a {
		if pl.StoryID == storyID {
			return i
		}
	}
	return -1
}

// RemoveAndRepack computes the assignment left behind when a story is
// dragged out of its cluster. The remaining stories receive the canonical
// template for the new count; template cells are handed out in the order of
// the stories' previous top-left corners, which keeps the transition
// animation short. Removing the last story yields an empty assignment; the
// caller destroys the cluster in that case.
func RemoveAndRepack(a Assignment, storyID string) (Assignment, error) {
	at := a.Find(storyID)
	if at < 0 {
		return nil, fmt.Errorf("%w: %s", ErrStoryNotFound, storyID)
	}

	rest := make(Assignment, 0, len(a)-1)
	rest = append(rest, a[:at]...)
	rest = append(rest, a[at+1:]...)
	if len(rest) == 0 {
		return rest, nil
	}

	cells, err := templateFor(len(rest))
	if err != nil {
		return nil, err
	}

	// Rank remaining stories by their previous top-left corner so each one
	// lands in the template cell matching its old relative position.
	order := make([]int, len(rest))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return originLess(rest[order[i]].Panel, rest[order[j]].Panel)
	})
	for rank, idx := range order {
		rest[idx].Panel = cells[rank]
	}
	return rest, nil
}

// Insert subdivides the panel under the drop point to make room for a new
// story. The target panel splits along whichever axis puts the split line
// closer to the drop point; the incoming story takes the half containing
// the drop point and every other panel keeps its geometry, so the
// transition animation touches exactly two rectangles.
func Insert(a Assignment, storyID string, drop Point) (Assignment, error) {
	if len(a) >= MaxStories {
		return nil, fmt.Errorf("%w: %d stories", ErrClusterFull, len(a))
	}
	if a.Find(storyID) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrStoryExists, storyID)
	}

	target, err := ResolveTarget(a, drop)
	if err != nil {
		return nil, err
	}

	kept, taken := splitPanel(a[target].Panel, drop)

	out := a.Clone()
	out[target].Panel = kept
	out = append(out, Placement{StoryID: storyID, Panel: taken})
	return out, nil
}

// ResolveTarget maps a drop point to the index of exactly one panel.
// Points on a shared edge match several panels; the tie breaks toward the
// panel with the lexicographically smaller origin (top-most, then
// left-most), so a drop on a vertical boundary lands in the left panel.
func ResolveTarget(a Assignment, drop Point) (int, error) {
	drop = clampPoint(drop)
	best := -1
	for i, pl := range a {
		if !pl.Panel.Contains(drop) {
			continue
		}
		if best < 0 || originLess(pl.Panel, a[best].Panel) {
			best = i
		}
	}
	if best < 0 {
		return -1, fmt.Errorf("%w: (%v, %v)", ErrNoTarget, drop.X, drop.Y)
	}
	return best, nil
}

// splitPanel halves the target along the axis whose split line is closer to
// the drop point, equal distance preferring the vertical line. Returns the
// half kept by the resident story and the half taken by the dropped one.
func splitPanel(p Panel, drop Point) (kept, taken Panel) {
	c := p.Center()
	vertical := math.Abs(drop.X-c.X) <= math.Abs(drop.Y-c.Y)

	var first, second Panel
	if vertical {
		first = Panel{X: p.X, Y: p.Y, Width: p.Width / 2, Height: p.Height}
		second = Panel{X: c.X, Y: p.Y, Width: p.Width / 2, Height: p.Height}
		if drop.X < c.X {
			return second, first
		}
		return first, second
	}
	first = Panel{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height / 2}
	second = Panel{X: p.X, Y: c.Y, Width: p.Width, Height: p.Height / 2}
	if drop.Y < c.Y {
		return second, first
	}
	return first, second
}

func clampPoint(pt Point) Point {
	return Point{
		X: math.Min(1, math.Max(0, pt.X)),
		Y: math.Min(1, math.Max(0, pt.Y)),
	}
}
