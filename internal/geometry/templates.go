package geometry

import "fmt"

// MaxStories caps how many stories a cluster may tile. The product scope
// stops at four; larger clusters fall back to tabs at the shell level.
const MaxStories = 4

// LayoutTag names the canonical grid template applied to a cluster. The
// presentation layer picks its rendering strategy from the tag.
type LayoutTag string

const (
	TagSingle       LayoutTag = "single"
	TagSideBySide   LayoutTag = "side_by_side"
	TagMainWithPair LayoutTag = "main_with_pair"
	TagQuad         LayoutTag = "quad"
	TagTabs         LayoutTag = "tabs"
)

// templateFor returns the canonical tiling for n stories, cells ordered
// top-most then left-most. Each template exactly tiles the unit square.
func templateFor(n int) ([]Panel, error) {
	switch n {
	case 1:
		return []Panel{FullPanel}, nil
	case 2:
		return []Panel{
			{X: 0, Y: 0, Width: 0.5, Height: 1},
			{X: 0.5, Y: 0, Width: 0.5, Height: 1},
		}, nil
	case 3:
		return []Panel{
			{X: 0, Y: 0, Width: 0.5, Height: 1},
			{X: 0.5, Y: 0, Width: 0.5, Height: 0.5},
			{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5},
		}, nil
	case 4:
		return []Panel{
			{X: 0, Y: 0, Width: 0.5, Height: 0.5},
			{X: 0.5, Y: 0, Width: 0.5, Height: 0.5},
			{X: 0, Y: 0.5, Width: 0.5, Height: 0.5},
			{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5},
		}, nil
	}
	return nil, fmt.Errorf("%w: %d stories", ErrDegenerateCluster, n)
}

// tagFor maps a story count to its template tag.
func tagFor(n int) (LayoutTag, error) {
	switch n {
	case 1:
		return TagSingle, nil
	case 2:
		return TagSideBySide, nil
	case 3:
		return TagMainWithPair, nil
	case 4:
		return TagQuad, nil
	}
	return "", fmt.Errorf("%w: %d stories", ErrDegenerateCluster, n)
}
