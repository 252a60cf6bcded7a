package garden

import "sync"

// EventKind classifies a committed mutation.
type EventKind string

const (
	EventPlantChanged EventKind = "plant_changed"
	EventTodoChanged  EventKind = "todo_changed"
	EventActionLogged EventKind = "action_logged"
)

// Event describes a committed mutation. Consumers that derive views from
// the plant/todo collections (the upcoming buckets, notification
// scheduling) recompute when one arrives instead of polling.
type Event struct {
	Kind       EventKind
	PlantID    string
	ActionName string
}

// hub is a callback registry. Callbacks run synchronously on the
// mutating goroutine, after the mutation has been committed.
type hub struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

func (h *hub) subscribe(fn func(Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs == nil {
		h.subs = make(map[int]func(Event))
	}
	id := h.next
	h.next++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

func (h *hub) publish(e Event) {
	h.mu.Lock()
	fns := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	// Called outside the lock so a subscriber may subscribe/unsubscribe.
	for _, fn := range fns {
		fn(e)
	}
}
