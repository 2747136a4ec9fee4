package types

import "github.com/armadillo-os/shell/internal/geometry"

// CreateClusterRequest spawns a cluster with one initial story.
type CreateClusterRequest struct {
	Title string `json:"title" binding:"required"`
}

// AddStoryRequest drops a new story into an existing cluster.
type AddStoryRequest struct {
	Title     string         `json:"title" binding:"required"`
	DropPoint geometry.Point `json:"drop_point"`
}

// DropRequest merges a dragged single-story cluster into a target cluster.
type DropRequest struct {
	SourceClusterID string         `json:"source_cluster_id" binding:"required"`
	DropPoint       geometry.Point `json:"drop_point"`
}

// FocusRequest focuses a story within a cluster.
type FocusRequest struct {
	StoryID string `json:"story_id" binding:"required"`
}

// DisplayModeRequest switches a cluster between panels and tabs.
type DisplayModeRequest struct {
	Mode geometry.DisplayMode `json:"mode" binding:"required"`
}

// AdvanceRequest feeds a gesture completion event to the focus state machine.
type AdvanceRequest struct {
	Event FocusEvent `json:"event" binding:"required"`
}

// SaveSessionRequest names a session snapshot.
type SaveSessionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// WSMessage is the WebSocket command envelope sent by the presentation
// layer. Fields beyond Type are populated per command.
type WSMessage struct {
	Type            string               `json:"type"`
	ClusterID       string               `json:"cluster_id,omitempty"`
	SourceClusterID string               `json:"source_cluster_id,omitempty"`
	StoryID         string               `json:"story_id,omitempty"`
	Title           string               `json:"title,omitempty"`
	DropPoint       *geometry.Point      `json:"drop_point,omitempty"`
	Mode            geometry.DisplayMode `json:"mode,omitempty"`
	Event           FocusEvent           `json:"event,omitempty"`
	Size            *geometry.Size       `json:"size,omitempty"`
}
