package types

import (
	"time"

	"github.com/armadillo-os/shell/internal/geometry"
)

// FocusState is the per-cluster gesture state machine driven by the
// presentation layer's gesture completion events.
type FocusState string

const (
	StateUnfocused  FocusState = "unfocused"
	StateFocusing   FocusState = "focusing"
	StateFocused    FocusState = "focused"
	StateDefocusing FocusState = "defocusing"
)

// FocusEvent advances a cluster's focus state machine.
type FocusEvent string

const (
	EventFocusStart      FocusEvent = "focus_start"
	EventFocusComplete   FocusEvent = "focus_complete"
	EventDefocusStart    FocusEvent = "defocus_start"
	EventDefocusComplete FocusEvent = "defocus_complete"
)

// Story represents one application surface managed by the shell. Stories
// never move their own panels; all geometry changes go through cluster-level
// split and merge operations.
type Story struct {
	ID            string         `json:"id"`
	ClusterID     string         `json:"cluster_id"`
	Title         string         `json:"title"`
	IsPlaceholder bool           `json:"is_placeholder,omitempty"` // drag-feedback ghost
	Panel         geometry.Panel `json:"panel"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Cluster is an immutable snapshot of one story cluster: its stories in
// cluster order, the focused story if any, and its presentation state.
type Cluster struct {
	ID             string               `json:"id"`
	Stories        []Story              `json:"stories"`
	FocusedStoryID *string              `json:"focused_story_id,omitempty"`
	DisplayMode    geometry.DisplayMode `json:"display_mode"`
	State          FocusState           `json:"state"`
	CreatedAt      time.Time            `json:"created_at"`
}

// StoryIDs returns the cluster's story ids in cluster order.
func (c Cluster) StoryIDs() []string {
	out := make([]string, len(c.Stories))
	for i, s := range c.Stories {
		out[i] = s.ID
	}
	return out
}

// Assignment derives the geometry-layer story-to-panel mapping from the
// snapshot.
func (c Cluster) Assignment() geometry.Assignment {
	out := make(geometry.Assignment, len(c.Stories))
	for i, s := range c.Stories {
		out[i] = geometry.Placement{StoryID: s.ID, Panel: s.Panel}
	}
	return out
}

// Stats contains shell-wide counters surfaced by the stats endpoint.
type Stats struct {
	TotalClusters    int     `json:"total_clusters"`
	TotalStories     int     `json:"total_stories"`
	FocusedClusterID *string `json:"focused_cluster_id,omitempty"`
	TabClusters      int     `json:"tab_clusters"`
}
