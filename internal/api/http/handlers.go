package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/armadillo-os/shell/internal/domain/cluster"
	"github.com/armadillo-os/shell/internal/domain/session"
	"github.com/armadillo-os/shell/internal/domain/suggestion"
	"github.com/armadillo-os/shell/internal/geometry"
	"github.com/armadillo-os/shell/internal/infrastructure/monitoring"
	"github.com/armadillo-os/shell/internal/shared/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	clusters    *cluster.Manager
	sessions    *session.Manager
	suggestions *suggestion.Registry
	metrics     *monitoring.Metrics
}

// NewHandlers creates a new handler set
func NewHandlers(
	clusters *cluster.Manager,
	sessions *session.Manager,
	suggestions *suggestion.Registry,
	metrics *monitoring.Metrics,
) *Handlers {
	return &Handlers{
		clusters:    clusters,
		sessions:    sessions,
		suggestions: suggestions,
		metrics:     metrics,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Armadillo Shell (Go)",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"shell":       h.clusters.Stats(),
		"suggestions": gin.H{"total": h.suggestions.Count()},
	})
}

// ListClusters lists all clusters in creation order
func (h *Handlers) ListClusters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"clusters": h.clusters.List(),
		"stats":    h.clusters.Stats(),
	})
}

// GetCluster returns one cluster snapshot
func (h *Handlers) GetCluster(c *gin.Context) {
	snap, ok := h.clusters.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": cluster.ErrClusterNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cluster": snap})
}

// CreateCluster spawns a cluster holding one full-coverage story
func (h *Handlers) CreateCluster(c *gin.Context) {
	var req types.CreateClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.clusters.CreateCluster(req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cluster": snap})
}

// DismissCluster removes a cluster and all its stories
func (h *Handlers) DismissCluster(c *gin.Context) {
	clusterID := c.Param("id")
	if err := h.clusters.Dismiss(clusterID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"cluster_id": clusterID,
	})
}

// AddStory splits a panel to make room for a new story
func (h *Handlers) AddStory(c *gin.Context) {
	var req types.AddStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.clusters.AddStory(c.Param("id"), req.Title, req.DropPoint)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cluster": snap})
}

// DragOutStory lifts a story out of its cluster into a drag ghost
func (h *Handlers) DragOutStory(c *gin.Context) {
	source, ghost, err := h.clusters.DragOut(c.Param("id"), c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source": source,
		"ghost":  ghost,
	})
}

// EndDrag materializes a drag ghost as a standalone cluster
func (h *Handlers) EndDrag(c *gin.Context) {
	snap, err := h.clusters.EndDrag(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cluster": snap})
}

// Drop merges a dragged single-story cluster into the target cluster
func (h *Handlers) Drop(c *gin.Context) {
	var req types.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.clusters.Drop(req.SourceClusterID, c.Param("id"), req.DropPoint)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cluster": snap})
}

// Focus focuses a story within a cluster
func (h *Handlers) Focus(c *gin.Context) {
	var req types.FocusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.clusters.Focus(c.Param("id"), req.StoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cluster": snap})
}

// Advance feeds a gesture completion event to the focus state machine
func (h *Handlers) Advance(c *gin.Context) {
	var req types.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.clusters.Advance(c.Param("id"), req.Event)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cluster": snap})
}

// SetDisplayMode switches a cluster between panels and tabs
func (h *Handlers) SetDisplayMode(c *gin.Context) {
	var req types.DisplayModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Mode != geometry.DisplayModePanels && req.Mode != geometry.DisplayModeTabs {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be panels or tabs"})
		return
	}

	snap, err := h.clusters.SetDisplayMode(c.Param("id"), req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cluster": snap})
}

// Layout computes the pixel-space layout model for a cluster
func (h *Handlers) Layout(c *gin.Context) {
	width, werr := strconv.ParseFloat(c.Query("width"), 64)
	height, herr := strconv.ParseFloat(c.Query("height"), 64)
	if werr != nil || herr != nil || width <= 0 || height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be positive numbers"})
		return
	}

	start := time.Now()
	model, err := h.clusters.Layout(c.Param("id"), geometry.Size{Width: width, Height: height})
	if err != nil {
		respondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordLayoutCompute(string(model.Tag), time.Since(start))
	}
	c.JSON(http.StatusOK, gin.H{"layout": model})
}

// QuerySuggestions ranks launcher suggestions for the typed text
func (h *Handlers) QuerySuggestions(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	query := c.Query("q")
	results := h.suggestions.Query(query, limit)
	c.JSON(http.StatusOK, gin.H{
		"query":       query,
		"suggestions": results,
	})
}

// SaveSession snapshots the current workspace
func (h *Handlers) SaveSession(c *gin.Context) {
	var req types.SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.sessions.Save(req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": sess})
}

// ListSessions lists saved sessions, newest first
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetSession returns one saved session without applying it
func (h *Handlers) GetSession(c *gin.Context) {
	sess, err := h.sessions.Load(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// RestoreSession replaces the live workspace with a saved session
func (h *Handlers) RestoreSession(c *gin.Context) {
	sess, err := h.sessions.Restore(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": sess,
	})
}

// DeleteSession removes a saved session
func (h *Handlers) DeleteSession(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.sessions.Delete(sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sessionID,
	})
}

// Stats returns shell-wide counters as JSON
func (h *Handlers) Stats(c *gin.Context) {
	resp := gin.H{"shell": h.clusters.Stats()}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.GetSnapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// respondError maps domain errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, cluster.ErrClusterNotFound),
		errors.Is(err, geometry.ErrStoryNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, geometry.ErrClusterFull),
		errors.Is(err, geometry.ErrStoryExists),
		errors.Is(err, cluster.ErrInvalidTransition),
		errors.Is(err, cluster.ErrNotDraggable):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
