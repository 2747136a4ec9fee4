package cluster

import (
	"sync"

	"github.com/armadillo-os/shell/internal/shared/types"
)

// EventKind classifies observer notifications.
type EventKind string

const (
	// EventUpdated fires whenever a cluster's panel assignment, focus, or
	// display mode changes.
	EventUpdated EventKind = "updated"
	// EventRemoved fires when a cluster is dismissed or merges away.
	EventRemoved EventKind = "removed"
)

// Event carries an immutable cluster snapshot to observers.
type Event struct {
	Kind    EventKind     `json:"kind"`
	Cluster types.Cluster `json:"cluster"`
}

// Listener receives cluster events. Listeners run synchronously on the
// mutating goroutine and must not call back into the Manager.
type Listener func(Event)

type observerEntry struct {
	id int
	fn Listener
}

// observerSet delivers events to listeners in registration order. The
// delivery mutex serializes fan-out so overlapping mutations cannot
// interleave their notifications; registration uses a separate mutex, so a
// listener may cancel itself mid-delivery.
type observerSet struct {
	deliverMu sync.Mutex
	regMu     sync.Mutex
	entries   []observerEntry
	nextID    int
}

// add registers a listener and returns its cancel function. Cancelling is
// idempotent.
func (o *observerSet) add(fn Listener) func() {
	o.regMu.Lock()
	defer o.regMu.Unlock()

	id := o.nextID
	o.nextID++
	o.entries = append(o.entries, observerEntry{id: id, fn: fn})

	return func() {
		o.regMu.Lock()
		defer o.regMu.Unlock()
		for i, e := range o.entries {
			if e.id == id {
				o.entries = append(o.entries[:i], o.entries[i+1:]...)
				return
			}
		}
	}
}

// notify delivers the event to every listener in registration order.
func (o *observerSet) notify(e Event) {
	o.deliverMu.Lock()
	defer o.deliverMu.Unlock()

	o.regMu.Lock()
	entries := make([]observerEntry, len(o.entries))
	copy(entries, o.entries)
	o.regMu.Unlock()

	for _, entry := range entries {
		entry.fn(e)
	}
}

func (o *observerSet) count() int {
	o.regMu.Lock()
	defer o.regMu.Unlock()
	return len(o.entries)
}
