// Package ws provides WebSocket handling for the renderer connection.
//
// Gesture commands arrive as JSON messages and are applied to the
// cluster controller; every committed mutation is pushed back as a
// panels_changed event, so all connected renderers converge on the
// same tiling.
//
// Message Types (Client → Server):
//   - create_cluster, add_story, drag_out, end_drag, drop
//   - focus, advance, display_mode, dismiss
//   - layout: Compute pixel-space layout for a cluster
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - panels_changed: A cluster's snapshot after any mutation
//   - layout: Layout model with title bar insets
//   - pong, system, error
//
// Example Usage:
//
//	handler := ws.NewHandler(clusterManager, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
