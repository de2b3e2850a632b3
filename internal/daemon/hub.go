package daemon

import (
	"sync"
	"time"
)

// hub keeps a bounded replay log of events and fans new ones out to
// live stream subscribers. Sends never block; a slow subscriber drops
// events rather than stalling the compute path.
type hub struct {
	mu       sync.Mutex
	capacity int
	log      []Event
	lastID   int64
	lastSub  int
	subs     map[int]chan Event
}

func newHub(capacity int) *hub {
	if capacity < 1 {
		capacity = 200
	}
	return &hub{
		capacity: capacity,
		subs:     make(map[int]chan Event),
	}
}

// broadcast stamps the event with the next ID, records it, and offers
// it to every subscriber.
func (h *hub) broadcast(ev Event) Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	ev.ID = h.lastID

	h.log = append(h.log, ev)
	if excess := len(h.log) - h.capacity; excess > 0 {
		h.log = h.log[excess:]
	}

	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// history returns a copy of the retained event log, oldest first.
func (h *hub) history() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Event, len(h.log))
	copy(out, h.log)
	return out
}

func (h *hub) subscribe() (int, chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastSub++
	ch := make(chan Event, 16)
	h.subs[h.lastSub] = ch
	return h.lastSub, ch
}

func (h *hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

func (h *hub) counts() (events, subscribers int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.log), len(h.subs)
}

func newEvent(typ string, at time.Time, snap Snapshot, delta Delta) Event {
	return Event{
		Type:      typ,
		Timestamp: at,
		Snapshot:  snap,
		Delta:     delta,
	}
}
