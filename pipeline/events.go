package pipeline

import (
	"sync"
	"time"
)

// Progress is one observable pipeline progress event. Events are
// transient: emitted to listeners before each stage's network call begins,
// never stored.
type Progress struct {
	RunID      string    `json:"run_id"`
	Step       int       `json:"step"`
	TotalSteps int       `json:"total_steps"`
	Name       string    `json:"name"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProgressEmitter manages progress listeners and dispatches events.
type ProgressEmitter struct {
	mu        sync.RWMutex
	listeners []func(Progress)
}

// NewProgressEmitter creates a new ProgressEmitter.
func NewProgressEmitter() *ProgressEmitter {
	return &ProgressEmitter{
		listeners: make([]func(Progress), 0),
	}
}

// On registers a listener function to receive events.
// Listeners are called synchronously in registration order.
func (e *ProgressEmitter) On(listener func(Progress)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, listener)
}

// Emit dispatches an event to all registered listeners.
// Listeners are called synchronously in registration order.
func (e *ProgressEmitter) Emit(event Progress) {
	e.mu.RLock()
	listeners := make([]func(Progress), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// ListenerCount returns the number of registered listeners.
func (e *ProgressEmitter) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}
