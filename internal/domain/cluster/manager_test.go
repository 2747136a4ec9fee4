package cluster

import (
	"errors"
	"testing"

	"github.com/armadillo-os/shell/internal/geometry"
	"github.com/armadillo-os/shell/internal/shared/types"
)

func newTestManager() *Manager {
	return NewManager(DefaultConfig(), nil)
}

func TestCreateCluster(t *testing.T) {
	m := newTestManager()

	c, err := m.CreateCluster("Browser")
	if err != nil {
		t.Fatalf("CreateCluster failed: %v", err)
	}

	if len(c.Stories) != 1 {
		t.Fatalf("Expected 1 story, got %d", len(c.Stories))
	}
	if !c.Stories[0].Panel.Equal(geometry.FullPanel) {
		t.Error("Sole story should cover the full square")
	}
	if c.FocusedStoryID == nil || *c.FocusedStoryID != c.Stories[0].ID {
		t.Error("Initial story should be focused")
	}
	if c.State != types.StateUnfocused {
		t.Errorf("Expected unfocused state, got %s", c.State)
	}
}

func TestAddStoryKeepsCoverage(t *testing.T) {
	m := newTestManager()
	c, _ := m.CreateCluster("Base")

	drops := []geometry.Point{
		{X: 0.55, Y: 0.2},
		{X: 0.2, Y: 0.55},
		{X: 0.8, Y: 0.55},
	}
	for i, drop := range drops {
		next, err := m.AddStory(c.ID, "Extra", drop)
		if err != nil {
			t.Fatalf("AddStory %d failed: %v", i, err)
		}
		if len(next.Stories) != i+2 {
			t.Fatalf("Expected %d stories, got %d", i+2, len(next.Stories))
		}
		if !geometry.HaveFullCoverage(next.Assignment().Panels()) {
			t.Errorf("Coverage lost after drop %d", i)
		}
	}

	// Fifth story exceeds the cap.
	if _, err := m.AddStory(c.ID, "Overflow", geometry.Point{X: 0.5, Y: 0.5}); !errors.Is(err, geometry.ErrClusterFull) {
		t.Errorf("Expected ErrClusterFull, got %v", err)
	}
}

func TestDragOut(t *testing.T) {
	m := newTestManager()
	c, _ := m.CreateCluster("Base")
	c, _ = m.AddStory(c.ID, "Second", geometry.Point{X: 0.55, Y: 0.2})

	src, ghost, err := m.DragOut(c.ID, c.Stories[1].ID)
	if err != nil {
		t.Fatalf("DragOut failed: %v", err)
	}

	if len(src.Stories) != 1 {
		t.Fatalf("Expected 1 remaining story, got %d", len(src.Stories))
	}
	if !src.Stories[0].Panel.Equal(geometry.FullPanel) {
		t.Error("Remaining story should collapse to full coverage")
	}

	if len(ghost.Stories) != 1 {
		t.Fatalf("Ghost cluster should hold the dragged story")
	}
	if !ghost.Stories[0].IsPlaceholder {
		t.Error("Dragged story should be flagged as placeholder")
	}
	if ghost.Stories[0].ClusterID != ghost.ID {
		t.Error("Dragged story should reference its new cluster")
	}
}

func TestDragOutLastStoryDestroysCluster(t *testing.T) {
	m := newTestManager()
	c, _ := m.CreateCluster("Solo")

	src, ghost, err := m.DragOut(c.ID, c.Stories[0].ID)
	if err != nil {
		t.Fatalf("DragOut failed: %v", err)
	}
	if src.ID != "" {
		t.Error("Source snapshot should be zero when the cluster is destroyed")
	}
	if _, ok := m.Get(c.ID); ok {
		t.Error("Source cluster should be gone")
	}
	if _, ok := m.Get(ghost.ID); !ok {
		t.Error("Ghost cluster should exist")
	}
}

func TestDropMergesClusters(t *testing.T) {
	m := newTestManager()
	target, _ := m.CreateCluster("Target")
	source, _ := m.CreateCluster("Dragged")

	merged, err := m.Drop(source.ID, target.ID, geometry.Point{X: 0.55, Y: 0.2})
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}

	if len(merged.Stories) != 2 {
		t.Fatalf("Expected 2 stories after merge, got %d", len(merged.Stories))
	}
	if !geometry.HaveFullCoverage(merged.Assignment().Panels()) {
		t.Error("Coverage lost after merge")
	}
	for _, s := range merged.Stories {
		if s.IsPlaceholder {
			t.Error("Placeholder flag should clear on drop")
		}
	}
	if _, ok := m.Get(source.ID); ok {
		t.Error("Source cluster should be destroyed by the merge")
	}
}

func TestDropRejectsMultiStorySource(t *testing.T) {
	m := newTestManager()
	target, _ := m.CreateCluster("Target")
	source, _ := m.CreateCluster("Big")
	source, _ = m.AddStory(source.ID, "Second", geometry.Point{X: 0.55, Y: 0.2})

	if _, err := m.Drop(source.ID, target.ID, geometry.Point{X: 0.5, Y: 0.5}); !errors.Is(err, ErrNotDraggable) {
		t.Errorf("Expected ErrNotDraggable, got %v", err)
	}
}

func TestFocusAndStats(t *testing.T) {
	m := newTestManager()
	c1, _ := m.CreateCluster("One")
	c2, _ := m.CreateCluster("Two")
	c2, _ = m.AddStory(c2.ID, "Second", geometry.Point{X: 0.55, Y: 0.2})

	snap, err := m.Focus(c2.ID, c2.Stories[1].ID)
	if err != nil {
		t.Fatalf("Focus failed: %v", err)
	}
	if *snap.FocusedStoryID != c2.Stories[1].ID {
		t.Error("Focused story not updated")
	}

	stats := m.Stats()
	if stats.TotalClusters != 2 {
		t.Errorf("Expected 2 clusters, got %d", stats.TotalClusters)
	}
	if stats.TotalStories != 3 {
		t.Errorf("Expected 3 stories, got %d", stats.TotalStories)
	}
	if stats.FocusedClusterID == nil || *stats.FocusedClusterID != c2.ID {
		t.Error("Focused cluster should be the second one")
	}

	_ = c1
	if _, err := m.Focus(c1.ID, "story_missing"); !errors.Is(err, geometry.ErrStoryNotFound) {
		t.Errorf("Expected ErrStoryNotFound, got %v", err)
	}
}

func TestFocusStateMachine(t *testing.T) {
	m := newTestManager()
	c, _ := m.CreateCluster("One")

	steps := []struct {
		event types.FocusEvent
		want  types.FocusState
	}{
		{types.EventFocusStart, types.StateFocusing},
		{types.EventFocusComplete, types.StateFocused},
		{types.EventDefocusStart, types.StateDefocusing},
		{types.EventFocusStart, types.StateFocusing}, // gesture reversal
		{types.EventFocusComplete, types.StateFocused},
	}
	for i, step := range steps {
		snap, err := m.Advance(c.ID, step.event)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if snap.State != step.want {
			t.Errorf("step %d: expected %s, got %s", i, step.want, snap.State)
		}
	}

	// focused + focus_start is illegal.
	if _, err := m.Advance(c.ID, types.EventFocusStart); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition, got %v", err)
	}
}

func TestSetDisplayModeKeepsPanels(t *testing.T) {
	m := newTestManager()
	c, _ := m.CreateCluster("One")
	c, _ = m.AddStory(c.ID, "Two", geometry.Point{X: 0.55, Y: 0.2})
	before := c.Assignment()

	c, err := m.SetDisplayMode(c.ID, geometry.DisplayModeTabs)
	if err != nil {
		t.Fatalf("SetDisplayMode failed: %v", err)
	}
	if c.DisplayMode != geometry.DisplayModeTabs {
		t.Error("Display mode not updated")
	}
	for i, pl := range c.Assignment() {
		if !pl.Panel.Equal(before[i].Panel) {
			t.Error("Panel assignments must stay tracked in tabs mode")
		}
	}

	if _, err := m.SetDisplayMode(c.ID, "carousel"); err == nil {
		t.Error("Unknown display mode should be rejected")
	}
}

func TestDismiss(t *testing.T) {
	m := newTestManager()
	c, _ := m.CreateCluster("One")

	if err := m.Dismiss(c.ID); err != nil {
		t.Fatalf("Dismiss failed: %v", err)
	}
	if err := m.Dismiss(c.ID); !errors.Is(err, ErrClusterNotFound) {
		t.Errorf("Expected ErrClusterNotFound, got %v", err)
	}
	if len(m.List()) != 0 {
		t.Error("List should be empty after dismiss")
	}
}

func TestLayoutThroughManager(t *testing.T) {
	m := newTestManager()
	c, _ := m.CreateCluster("One")
	c, _ = m.AddStory(c.ID, "Two", geometry.Point{X: 0.55, Y: 0.2})
	c, _ = m.AddStory(c.ID, "Three", geometry.Point{X: 0.2, Y: 0.55})

	model, err := m.Layout(c.ID, geometry.Size{Width: 900, Height: 600})
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if model.Tag != geometry.TagMainWithPair {
		t.Errorf("Expected main_with_pair, got %s", model.Tag)
	}
	for _, sl := range model.Stories {
		band := 225.0
		if sl.Focused {
			band = 450.0
		}
		total := sl.Bar.Left + band + sl.Bar.Right
		if total < 900-geometry.Epsilon || total > 900+geometry.Epsilon {
			t.Errorf("Bar bands should reconstruct the width, got %v", total)
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	m := newTestManager()
	c, _ := m.CreateCluster("One")

	c.Stories[0].Title = "mutated"
	fresh, _ := m.Get(c.ID)
	if fresh.Stories[0].Title != "One" {
		t.Error("Mutating a snapshot must not affect controller state")
	}
}
