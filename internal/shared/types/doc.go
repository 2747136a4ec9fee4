// Package types provides shared data structures for the shell core.
//
// This package defines the types exchanged between the cluster controller,
// the session store, and the API surface:
//   - Story: one application surface and its panel
//   - Cluster: immutable snapshot of a story cluster
//   - FocusState, FocusEvent: the per-cluster gesture state machine
//   - Stats: shell-wide counters
//
// Request Types:
//   - CreateClusterRequest, AddStoryRequest, DropRequest: structural ops
//   - FocusRequest, DisplayModeRequest, AdvanceRequest: presentation ops
//   - WSMessage: WebSocket command envelope
//
// Snapshots are value copies: mutating a returned Cluster never affects
// controller state.
package types
