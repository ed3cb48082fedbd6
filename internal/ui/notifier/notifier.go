// Package notifier fans out export-change signals to live dashboard pages.
package notifier

import (
	"slices"
	"sync"
)

// Event tells listeners which export files changed. An empty Files means
// "anything may have changed".
type Event struct {
	Files []string
}

// Touches reports whether the event concerns name.
func (e Event) Touches(name string) bool {
	return len(e.Files) == 0 || slices.Contains(e.Files, name)
}

// Notifier broadcasts events to all subscribed listeners. Each listener
// buffers one pending event and later events are dropped until it is read,
// so listeners re-read their data on every event.
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

// Subscribe returns a channel that receives events.
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

// Subscribers returns the number of listeners.
func (n *Notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends an event naming files to all listeners without blocking.
func (n *Notifier) Broadcast(files ...string) {
	ev := Event{Files: files}

	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}
