package source

import (
	"sync"

	"github.com/google/uuid"
)

// Registration is the token returned by a frame-arrived subscription.
// Releasing it unsubscribes; releasing twice is a no-op.
type Registration struct {
	id      string
	once    sync.Once
	release func()
}

func (r *Registration) ID() string {
	return r.id
}

func (r *Registration) Release() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		if r.release != nil {
			r.release()
		}
	})
}

// Event is a set of frame-arrived handlers keyed by registration.
type Event struct {
	mu       sync.Mutex
	handlers map[string]func(Reader)
	order    []string
}

func (e *Event) Subscribe(h func(Reader)) *Registration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = map[string]func(Reader){}
	}

	id := uuid.NewString()
	e.handlers[id] = h
	e.order = append(e.order, id)
	return &Registration{id: id, release: func() { e.unsubscribe(id) }}
}

func (e *Event) unsubscribe(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.handlers, id)
	for i, o := range e.order {
		if o == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Fire calls every handler subscribed at the time of the call, in
// subscription order. Handlers run outside the event's lock.
func (e *Event) Fire(r Reader) {
	e.mu.Lock()
	handlers := make([]func(Reader), 0, len(e.order))
	for _, id := range e.order {
		handlers = append(handlers, e.handlers[id])
	}
	e.mu.Unlock()

	for _, h := range handlers {
		h(r)
	}
}

func (e *Event) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}
