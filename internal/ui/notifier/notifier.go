// Package notifier fans out change events to connected SSE clients.
package notifier

import "sync"

// Event describes a change pushed to subscribers, such as a database file
// appearing in the data directory.
type Event struct {
	// Name identifies what changed, e.g. a file name relative to the data directory.
	Name string
	// Op is the filesystem operation (e.g., "CREATE", "REMOVE").
	Op string
}

// Notifier broadcasts events to all subscribed listeners.
// Each listener holds at most one pending event; listeners re-read the
// directory on every event, so dropped events lose nothing.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives change events.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Listeners returns the number of subscribed listeners.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends ev to all listeners without blocking.
func (n *Notifier) Broadcast(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
			// pending event already queued
		}
	}
}
