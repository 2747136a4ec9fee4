package cluster

import (
	"testing"

	"github.com/armadillo-os/shell/internal/geometry"
)

func TestWatchDeliversInRegistrationOrder(t *testing.T) {
	m := newTestManager()

	var order []string
	m.Watch(func(e Event) { order = append(order, "first") })
	m.Watch(func(e Event) { order = append(order, "second") })
	m.Watch(func(e Event) { order = append(order, "third") })

	if _, err := m.CreateCluster("One"); err != nil {
		t.Fatalf("CreateCluster failed: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("Expected %d deliveries, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Delivery %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestWatchCancel(t *testing.T) {
	m := newTestManager()

	var calls int
	cancel := m.Watch(func(e Event) { calls++ })

	m.CreateCluster("One")
	cancel()
	cancel() // idempotent
	m.CreateCluster("Two")

	if calls != 1 {
		t.Errorf("Expected 1 call after cancel, got %d", calls)
	}
}

func TestWatchFiresPerMutation(t *testing.T) {
	m := newTestManager()

	var events []Event
	m.Watch(func(e Event) { events = append(events, e) })

	c, _ := m.CreateCluster("One")
	c, _ = m.AddStory(c.ID, "Two", geometry.Point{X: 0.55, Y: 0.2})
	src, ghost, _ := m.DragOut(c.ID, c.Stories[1].ID)
	m.Drop(ghost.ID, src.ID, geometry.Point{X: 0.55, Y: 0.2})
	m.Dismiss(src.ID)

	// create, add, drag-out (source update + ghost update), drop (source
	// removed + target update), dismiss (removed).
	if len(events) != 7 {
		t.Fatalf("Expected 7 events, got %d", len(events))
	}

	kinds := []EventKind{
		EventUpdated, EventUpdated, EventUpdated, EventUpdated,
		EventRemoved, EventUpdated, EventRemoved,
	}
	for i, k := range kinds {
		if events[i].Kind != k {
			t.Errorf("Event %d: expected %s, got %s", i, k, events[i].Kind)
		}
	}
}

func TestSnapshotDeliveredAfterCommit(t *testing.T) {
	m := newTestManager()

	var seen int
	m.Watch(func(e Event) {
		if e.Kind != EventUpdated {
			return
		}
		// The snapshot handed to observers must already satisfy coverage.
		if !geometry.HaveFullCoverage(e.Cluster.Assignment().Panels()) {
			t.Error("Observer saw a half-replaced panel set")
		}
		seen++
	})

	c, _ := m.CreateCluster("One")
	m.AddStory(c.ID, "Two", geometry.Point{X: 0.55, Y: 0.2})

	if seen != 2 {
		t.Errorf("Expected 2 updates, got %d", seen)
	}
}
