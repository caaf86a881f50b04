package input

import "sync"

// Dispatcher receives resolved actions. What an action does to editor
// state is up to the implementation.
type Dispatcher interface {
	Dispatch(action Action)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(action Action)

// Dispatch calls f(action).
func (f DispatcherFunc) Dispatch(action Action) {
	f(action)
}

// Recorder is a Dispatcher that keeps every action it receives.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
}

// Dispatch records a copy of action.
func (r *Recorder) Dispatch(action Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action.Clone())
}

// Actions returns the recorded actions in order.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Names returns the names of the recorded actions in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.actions))
	for i, a := range r.actions {
		out[i] = a.Name
	}
	return out
}

// Len returns the number of recorded actions.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actions)
}

// Reset discards the recorded actions.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = nil
}
