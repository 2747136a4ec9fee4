package cluster

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/armadillo-os/shell/internal/geometry"
	"github.com/armadillo-os/shell/internal/infrastructure/monitoring"
	"github.com/armadillo-os/shell/internal/shared/id"
	"github.com/armadillo-os/shell/internal/shared/types"
)

// state is the mutable aggregate behind one cluster snapshot.
type state struct {
	id             string
	stories        []types.Story // cluster order; panels kept in sync
	focusedStoryID *string
	displayMode    geometry.DisplayMode
	focusState     types.FocusState
	createdAt      time.Time
}

func (s *state) snapshot() types.Cluster {
	stories := make([]types.Story, len(s.stories))
	copy(stories, s.stories)

	var focused *string
	if s.focusedStoryID != nil {
		f := *s.focusedStoryID
		focused = &f
	}

	return types.Cluster{
		ID:             s.id,
		Stories:        stories,
		FocusedStoryID: focused,
		DisplayMode:    s.displayMode,
		State:          s.focusState,
		CreatedAt:      s.createdAt,
	}
}

func (s *state) assignment() geometry.Assignment {
	out := make(geometry.Assignment, len(s.stories))
	for i, st := range s.stories {
		out[i] = geometry.Placement{StoryID: st.ID, Panel: st.Panel}
	}
	return out
}

// applyAssignment commits a freshly computed assignment back onto the
// stories, preserving cluster order and appending stories the splitter
// introduced. Must hold the manager lock.
func (s *state) applyAssignment(a geometry.Assignment, byID map[string]types.Story) {
	stories := make([]types.Story, len(a))
	for i, pl := range a {
		st, ok := byID[pl.StoryID]
		if !ok {
			continue
		}
		st.Panel = pl.Panel
		st.ClusterID = s.id
		stories[i] = st
	}
	s.stories = stories
}

// Config tunes the controller.
type Config struct {
	// GridQuantum aligns layout measurements to the pixel grid.
	GridQuantum float64
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{GridQuantum: 1.0}
}

// Manager orchestrates cluster lifecycle and is the single write path for
// structural shell state.
type Manager struct {
	mu        sync.RWMutex
	clusters  map[string]*state // Protected by mu
	order     []string          // creation order, Protected by mu
	focusedID *string           // Protected by mu

	observers observerSet
	cfg       Config
	logger    *zap.Logger
	metrics   *monitoring.Metrics
}

// NewManager creates a cluster manager.
func NewManager(cfg Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		clusters: make(map[string]*state),
		cfg:      cfg,
		logger:   logger,
	}
}

// WithMetrics adds metrics tracking to the manager.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Watch registers a panel listener. The cancel function unregisters it.
// Listeners fire after each mutation commits, in registration order.
func (m *Manager) Watch(fn Listener) func() {
	return m.observers.add(fn)
}

// CreateCluster spawns a cluster holding one full-coverage story.
func (m *Manager) CreateCluster(title string) (types.Cluster, error) {
	now := time.Now()
	story := types.Story{
		ID:        id.NewStoryID().String(),
		Title:     title,
		Panel:     geometry.FullPanel,
		CreatedAt: now,
	}
	c := &state{
		id:          id.NewClusterID().String(),
		displayMode: geometry.DisplayModePanels,
		focusState:  types.StateUnfocused,
		createdAt:   now,
	}
	story.ClusterID = c.id
	c.stories = []types.Story{story}
	c.focusedStoryID = &story.ID

	m.mu.Lock()
	m.clusters[c.id] = c
	m.order = append(m.order, c.id)
	snap := c.snapshot()
	m.mu.Unlock()

	m.recordGauges()
	m.logger.Info("cluster created",
		zap.String("cluster_id", c.id),
		zap.String("story_id", story.ID),
	)
	m.observers.notify(Event{Kind: EventUpdated, Cluster: snap})
	return snap, nil
}

// AddStory drops a brand-new story into an existing cluster at the given
// normalized drop point.
func (m *Manager) AddStory(clusterID, title string, drop geometry.Point) (types.Cluster, error) {
	storyID := id.NewStoryID().String()

	m.mu.Lock()
	c, ok := m.clusters[clusterID]
	if !ok {
		m.mu.Unlock()
		return types.Cluster{}, fmt.Errorf("%w: %s", ErrClusterNotFound, clusterID)
	}

	next, err := geometry.Insert(c.assignment(), storyID, drop)
	if err != nil {
		m.mu.Unlock()
		return types.Cluster{}, fmt.Errorf("insert into %s: %w", clusterID, err)
	}

	byID := m.storyIndex(c)
	byID[storyID] = types.Story{ID: storyID, Title: title, CreatedAt: time.Now()}
	c.applyAssignment(next, byID)
	m.assertCoverage(c)
	snap := c.snapshot()
	m.mu.Unlock()

	m.countSplit()
	m.recordGauges()
	m.observers.notify(Event{Kind: EventUpdated, Cluster: snap})
	return snap, nil
}

// DragOut removes a story from its cluster into a fresh single-story
// cluster flagged as a drag ghost, and repacks the source. When the last
// story leaves, the source cluster is destroyed. Returns the source
// snapshot (zero if destroyed) and the ghost cluster.
func (m *Manager) DragOut(clusterID, storyID string) (source types.Cluster, ghost types.Cluster, err error) {
	m.mu.Lock()
	c, ok := m.clusters[clusterID]
	if !ok {
		m.mu.Unlock()
		return types.Cluster{}, types.Cluster{}, fmt.Errorf("%w: %s", ErrClusterNotFound, clusterID)
	}

	idx := c.assignment().Find(storyID)
	if idx < 0 {
		m.mu.Unlock()
		return types.Cluster{}, types.Cluster{}, fmt.Errorf("%w: %s", geometry.ErrStoryNotFound, storyID)
	}
	dragged := c.stories[idx]

	next, err := geometry.RemoveAndRepack(c.assignment(), storyID)
	if err != nil {
		m.mu.Unlock()
		return types.Cluster{}, types.Cluster{}, fmt.Errorf("repack %s: %w", clusterID, err)
	}

	removed := len(next) == 0
	if removed {
		delete(m.clusters, clusterID)
		m.dropFromOrder(clusterID)
		m.clearFocusLocked(clusterID)
	} else {
		c.applyAssignment(next, m.storyIndex(c))
		if c.focusedStoryID != nil && *c.focusedStoryID == storyID {
			first := c.stories[0].ID
			c.focusedStoryID = &first
		}
		m.assertCoverage(c)
	}

	// The departing story becomes its own cluster: the drag feedback ghost
	// the presentation layer renders under the pointer.
	dragged.IsPlaceholder = true
	dragged.Panel = geometry.FullPanel
	g := &state{
		id:          id.NewClusterID().String(),
		displayMode: geometry.DisplayModePanels,
		focusState:  types.StateUnfocused,
		createdAt:   time.Now(),
	}
	dragged.ClusterID = g.id
	g.stories = []types.Story{dragged}
	g.focusedStoryID = &dragged.ID
	m.clusters[g.id] = g
	m.order = append(m.order, g.id)

	var srcSnap types.Cluster
	if !removed {
		srcSnap = c.snapshot()
	}
	ghostSnap := g.snapshot()
	m.mu.Unlock()

	m.countSplit()
	m.recordGauges()
	m.logger.Info("story dragged out",
		zap.String("source_cluster", clusterID),
		zap.String("story_id", storyID),
		zap.String("ghost_cluster", g.id),
		zap.Bool("source_destroyed", removed),
	)

	if removed {
		m.observers.notify(Event{Kind: EventRemoved, Cluster: types.Cluster{ID: clusterID}})
	} else {
		m.observers.notify(Event{Kind: EventUpdated, Cluster: srcSnap})
	}
	m.observers.notify(Event{Kind: EventUpdated, Cluster: ghostSnap})
	return srcSnap, ghostSnap, nil
}

// EndDrag settles a drag ghost as a standalone cluster.
func (m *Manager) EndDrag(clusterID string) (types.Cluster, error) {
	m.mu.Lock()
	c, ok := m.clusters[clusterID]
	if !ok {
		m.mu.Unlock()
		return types.Cluster{}, fmt.Errorf("%w: %s", ErrClusterNotFound, clusterID)
	}
	for i := range c.stories {
		c.stories[i].IsPlaceholder = false
	}
	snap := c.snapshot()
	m.mu.Unlock()

	m.observers.notify(Event{Kind: EventUpdated, Cluster: snap})
	return snap, nil
}

// Drop merges a dragged single-story cluster into a target cluster at the
// given drop point. The source cluster is destroyed.
func (m *Manager) Drop(sourceID, targetID string, drop geometry.Point) (types.Cluster, error) {
	m.mu.Lock()
	src, ok := m.clusters[sourceID]
	if !ok {
		m.mu.Unlock()
		return types.Cluster{}, fmt.Errorf("%w: %s", ErrClusterNotFound, sourceID)
	}
	tgt, ok := m.clusters[targetID]
	if !ok {
		m.mu.Unlock()
		return types.Cluster{}, fmt.Errorf("%w: %s", ErrClusterNotFound, targetID)
	}
	if len(src.stories) != 1 {
		m.mu.Unlock()
		return types.Cluster{}, fmt.Errorf("%w: %s has %d stories", ErrNotDraggable, sourceID, len(src.stories))
	}

	story := src.stories[0]
	next, err := geometry.Insert(tgt.assignment(), story.ID, drop)
	if err != nil {
		m.mu.Unlock()
		return types.Cluster{}, fmt.Errorf("merge into %s: %w", targetID, err)
	}

	story.IsPlaceholder = false
	byID := m.storyIndex(tgt)
	byID[story.ID] = story
	tgt.applyAssignment(next, byID)
	m.assertCoverage(tgt)

	delete(m.clusters, sourceID)
	m.dropFromOrder(sourceID)
	m.clearFocusLocked(sourceID)
	snap := tgt.snapshot()
	m.mu.Unlock()

	m.countMerge()
	m.recordGauges()
	m.logger.Info("clusters merged",
		zap.String("source_cluster", sourceID),
		zap.String("target_cluster", targetID),
		zap.String("story_id", story.ID),
	)
	m.observers.notify(Event{Kind: EventRemoved, Cluster: types.Cluster{ID: sourceID}})
	m.observers.notify(Event{Kind: EventUpdated, Cluster: snap})
	return snap, nil
}

// Focus marks a story focused within its cluster and the cluster focused
// shell-wide.
func (m *Manager) Focus(clusterID, storyID string) (types.Cluster, error) {
	m.mu.Lock()
	c, ok := m.clusters[clusterID]
	if !ok {
		m.mu.Unlock()
		return types.Cluster{}, fmt.Errorf("%w: %s", ErrClusterNotFound, clusterID)
	}
	if c.assignment().Find(storyID) < 0 {
		m.mu.Unlock()
		return types.Cluster{}, fmt.Errorf("%w: %s", geometry.ErrStoryNotFound, storyID)
	}
	c.focusedStoryID = &storyID
	m.focusedID = &c.id
	snap := c.snapshot()
	m.mu.Unlock()

	m.observers.notify(Event{Kind: EventUpdated, Cluster: snap})
	return snap, nil
}

// Advance feeds a gesture completion event into a cluster's focus state
// machine. Illegal transitions are rejected.
func (m *Manager) Advance(clusterID string, event types.FocusEvent) (types.Cluster, error) {
	m.mu.Lock()
	c, ok := m.clusters[clusterID]
	if !ok {
		m.mu.Unlock()
		return types.Cluster{}, fmt.Errorf("%w: %s", ErrClusterNotFound, clusterID)
	}
	next, err := transition(c.focusState, event)
	if err != nil {
		m.mu.Unlock()
		return types.Cluster{}, err
	}
	c.focusState = next
	snap := c.snapshot()
	m.mu.Unlock()

	m.observers.notify(Event{Kind: EventUpdated, Cluster: snap})
	return snap, nil
}

// SetDisplayMode switches a cluster between panels and tabs. Panel
// assignments stay tracked in tabs mode so reverting is lossless.
func (m *Manager) SetDisplayMode(clusterID string, mode geometry.DisplayMode) (types.Cluster, error) {
	if mode != geometry.DisplayModePanels && mode != geometry.DisplayModeTabs {
		return types.Cluster{}, fmt.Errorf("unknown display mode: %q", mode)
	}

	m.mu.Lock()
	c, ok := m.clusters[clusterID]
	if !ok {
		m.mu.Unlock()
		return types.Cluster{}, fmt.Errorf("%w: %s", ErrClusterNotFound, clusterID)
	}
	c.displayMode = mode
	snap := c.snapshot()
	m.mu.Unlock()

	m.observers.notify(Event{Kind: EventUpdated, Cluster: snap})
	return snap, nil
}

// Dismiss destroys a cluster and all its stories.
func (m *Manager) Dismiss(clusterID string) error {
	m.mu.Lock()
	if _, ok := m.clusters[clusterID]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrClusterNotFound, clusterID)
	}
	delete(m.clusters, clusterID)
	m.dropFromOrder(clusterID)
	m.clearFocusLocked(clusterID)
	m.mu.Unlock()

	m.recordGauges()
	m.logger.Info("cluster dismissed", zap.String("cluster_id", clusterID))
	m.observers.notify(Event{Kind: EventRemoved, Cluster: types.Cluster{ID: clusterID}})
	return nil
}

// Get retrieves a cluster snapshot by ID.
func (m *Manager) Get(clusterID string) (types.Cluster, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clusters[clusterID]
	if !ok {
		return types.Cluster{}, false
	}
	return c.snapshot(), true
}

// List returns all cluster snapshots in creation order.
func (m *Manager) List() []types.Cluster {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Cluster, 0, len(m.order))
	for _, cid := range m.order {
		if c, ok := m.clusters[cid]; ok {
			out = append(out, c.snapshot())
		}
	}
	return out
}

// Layout runs the layout classifier for a cluster at the given physical
// size.
func (m *Manager) Layout(clusterID string, size geometry.Size) (geometry.Model, error) {
	m.mu.RLock()
	c, ok := m.clusters[clusterID]
	if !ok {
		m.mu.RUnlock()
		return geometry.Model{}, fmt.Errorf("%w: %s", ErrClusterNotFound, clusterID)
	}
	a := c.assignment()
	focused := ""
	if c.focusedStoryID != nil {
		focused = *c.focusedStoryID
	}
	mode := c.displayMode
	m.mu.RUnlock()

	return geometry.ComputeLayout(a, focused, mode, size, m.cfg.GridQuantum)
}

// Stats returns shell-wide counters.
func (m *Manager) Stats() types.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stories, tabs int
	for _, c := range m.clusters {
		stories += len(c.stories)
		if c.displayMode == geometry.DisplayModeTabs {
			tabs++
		}
	}

	var focused *string
	if m.focusedID != nil {
		f := *m.focusedID
		focused = &f
	}
	return types.Stats{
		TotalClusters:    len(m.clusters),
		TotalStories:     stories,
		FocusedClusterID: focused,
		TabClusters:      tabs,
	}
}

// Restore replaces all controller state with the given snapshots, used by
// session restoration. Observers receive one update per restored cluster.
func (m *Manager) Restore(clusters []types.Cluster, focusedID string) {
	m.mu.Lock()
	m.clusters = make(map[string]*state, len(clusters))
	m.order = m.order[:0]
	m.focusedID = nil
	snaps := make([]types.Cluster, 0, len(clusters))
	for _, snap := range clusters {
		stories := make([]types.Story, len(snap.Stories))
		copy(stories, snap.Stories)
		c := &state{
			id:             snap.ID,
			stories:        stories,
			focusedStoryID: snap.FocusedStoryID,
			displayMode:    snap.DisplayMode,
			focusState:     snap.State,
			createdAt:      snap.CreatedAt,
		}
		m.clusters[c.id] = c
		m.order = append(m.order, c.id)
		m.assertCoverage(c)
		snaps = append(snaps, c.snapshot())
	}
	if focusedID != "" {
		if _, ok := m.clusters[focusedID]; ok {
			f := focusedID
			m.focusedID = &f
		}
	}
	m.mu.Unlock()

	m.recordGauges()
	for _, snap := range snaps {
		m.observers.notify(Event{Kind: EventUpdated, Cluster: snap})
	}
}

// storyIndex builds an id lookup for applyAssignment. Must hold mu.
func (m *Manager) storyIndex(c *state) map[string]types.Story {
	byID := make(map[string]types.Story, len(c.stories)+1)
	for _, st := range c.stories {
		byID[st.ID] = st
	}
	return byID
}

// dropFromOrder removes a cluster id from the creation order. Must hold mu.
func (m *Manager) dropFromOrder(clusterID string) {
	for i, cid := range m.order {
		if cid == clusterID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// clearFocusLocked clears shell focus if it pointed at the cluster. Must
// hold mu.
func (m *Manager) clearFocusLocked(clusterID string) {
	if m.focusedID != nil && *m.focusedID == clusterID {
		m.focusedID = nil
	}
}

// assertCoverage is the debug assertion over the coverage invariant. A
// violation is a logic defect upstream, never a recoverable condition: it
// is logged and counted, and state is left as computed for inspection.
func (m *Manager) assertCoverage(c *state) {
	if geometry.HaveFullCoverage(c.assignment().Panels()) {
		return
	}
	m.logger.Error("coverage invariant violated",
		zap.String("cluster_id", c.id),
		zap.Int("stories", len(c.stories)),
	)
	if m.metrics != nil {
		m.metrics.CoverageViolations.Inc()
	}
}

func (m *Manager) recordGauges() {
	if m.metrics == nil {
		return
	}
	stats := m.Stats()
	m.metrics.ClustersActive.Set(float64(stats.TotalClusters))
	m.metrics.StoriesActive.Set(float64(stats.TotalStories))
}

func (m *Manager) countSplit() {
	if m.metrics != nil {
		m.metrics.SplitsTotal.Inc()
	}
}

func (m *Manager) countMerge() {
	if m.metrics != nil {
		m.metrics.MergesTotal.Inc()
	}
}
