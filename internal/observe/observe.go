// Package observe provides a listener registry for property-change
// notifications between the controller and a presentation layer.
package observe

import "sync"

// Change describes one property that changed.
type Change struct {
	// Property is the name of the changed property (e.g. "ContactsInfo").
	Property string

	// Token identifies the command that caused the change, if any.
	Token string
}

// Listener receives change notifications.
type Listener func(Change)

// Observable is a registry of listeners.
//
// Thread-safety: Subscribe, Notify and the returned unsubscribe functions
// are safe for concurrent use. Listeners run synchronously on the notifying
// goroutine, in subscription order, without the registry lock held, so a
// listener may subscribe or unsubscribe without deadlocking.
//
// The zero value is ready to use.
type Observable struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []entry
}

type entry struct {
	id uint64
	fn Listener
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (o *Observable) Subscribe(fn Listener) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.listeners = append(o.listeners, entry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { o.remove(id) })
	}
}

func (o *Observable) remove(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, e := range o.listeners {
		if e.id == id {
			// Copy so an in-flight Notify keeps its own snapshot
			next := make([]entry, 0, len(o.listeners)-1)
			next = append(next, o.listeners[:i]...)
			next = append(next, o.listeners[i+1:]...)
			o.listeners = next
			return
		}
	}
}

// Notify delivers c to every listener registered at the time of the call.
func (o *Observable) Notify(c Change) {
	o.mu.Lock()
	snapshot := o.listeners
	o.mu.Unlock()

	for _, e := range snapshot {
		e.fn(c)
	}
}
