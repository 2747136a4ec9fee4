package types

import "time"

// Workspace is a point-in-time snapshot of every cluster on the shell,
// captured for session persistence.
type Workspace struct {
	Clusters  []Cluster `json:"clusters"`
	FocusedID string    `json:"focused_id,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}
