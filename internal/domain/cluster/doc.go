// Package cluster implements the story cluster controller.
//
// The controller is the single write path for all structural shell state:
// cluster lifecycle, story drag-out and drop, focus, and display mode. It
// routes commands to the geometry engine and publishes immutable snapshots
// to registered observers, replacing any need for components to reach into
// each other's state.
//
// Concurrency model: one RWMutex guards all clusters; every structural
// mutation is computed on copies by the pure geometry functions and
// committed atomically, so no reader ever observes a half-replaced panel
// set. Observer delivery is serialized and follows registration order.
// Serializing drag-start/drag-end per cluster is the gesture layer's
// responsibility.
package cluster
