// Package observable provides published values with explicit listener lists.
//
// A Value notifies its listeners synchronously, in registration order, every
// time its content changes. Values are not safe for concurrent use: all reads,
// writes and subscriptions must happen on the same goroutine (the UI loop).
package observable

// Listener receives the new value after a change.
type Listener[T any] func(T)

// Value holds a published field and its listeners.
type Value[T comparable] struct {
	current   T
	listeners []*entry[T]
}

type entry[T any] struct {
	fn     Listener[T]
	active bool
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	cancel func()
}

// Cancel removes the listener. Calling Cancel more than once is a no-op.
func (s *Subscription) Cancel() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

// New creates a value holding initial.
func New[T comparable](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the current content.
func (v *Value[T]) Get() T {
	return v.current
}

// Set replaces the content and notifies listeners if it changed.
// Returns true if listeners were notified.
func (v *Value[T]) Set(val T) bool {
	if val == v.current {
		return false
	}
	v.current = val
	// Snapshot so listeners may subscribe or cancel while being notified.
	snapshot := make([]*entry[T], len(v.listeners))
	copy(snapshot, v.listeners)
	for _, e := range snapshot {
		if e.active {
			e.fn(val)
		}
	}
	return true
}

// Subscribe registers fn for future changes. It does not replay the current value.
func (v *Value[T]) Subscribe(fn Listener[T]) *Subscription {
	e := &entry[T]{fn: fn, active: true}
	v.listeners = append(v.listeners, e)
	return &Subscription{cancel: func() { v.remove(e) }}
}

// Listeners returns the number of registered listeners.
func (v *Value[T]) Listeners() int {
	return len(v.listeners)
}

func (v *Value[T]) remove(target *entry[T]) {
	target.active = false
	for i, e := range v.listeners {
		if e == target {
			v.listeners = append(v.listeners[:i], v.listeners[i+1:]...)
			return
		}
	}
}
