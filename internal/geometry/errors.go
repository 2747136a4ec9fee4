package geometry

import "errors"

// Sentinel errors returned by the tiling engine. Domain callers wrap these
// with cluster/story context before surfacing them.
var (
	// ErrInvalidPanel indicates a rectangle outside the unit square domain.
	ErrInvalidPanel = errors.New("panel outside unit square domain")

	// ErrStoryNotFound indicates the referenced story has no placement.
	ErrStoryNotFound = errors.New("story not found in assignment")

	// ErrStoryExists indicates an insert of a story that is already placed.
	ErrStoryExists = errors.New("story already present in assignment")

	// ErrClusterFull indicates an insert beyond the story cap.
	ErrClusterFull = errors.New("cluster already at maximum story count")

	// ErrNoTarget indicates a drop point that resolves to no panel.
	ErrNoTarget = errors.New("drop point resolves to no panel")

	// ErrDegenerateCluster indicates a story count outside the 1..4 range
	// the layout classifier supports.
	ErrDegenerateCluster = errors.New("story count outside supported range")

	// ErrInvalidCoverage indicates a panel set that does not exactly tile
	// the unit square. Returned only from the debug assertion API; the
	// invariant is enforced constructively by the splitter and templates.
	ErrInvalidCoverage = errors.New("panels do not tile the unit square")
)
