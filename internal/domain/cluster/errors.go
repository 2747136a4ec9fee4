package cluster

import "errors"

var (
	// ErrClusterNotFound indicates an unknown cluster id.
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrInvalidTransition indicates a focus event that is illegal in the
	// cluster's current state.
	ErrInvalidTransition = errors.New("invalid focus transition")

	// ErrNotDraggable indicates a drop whose source is not a single-story
	// drag ghost cluster.
	ErrNotDraggable = errors.New("source cluster is not a dragged story")
)
