package store

import "sync"

type EventKind string

const (
	EventCart     EventKind = "cart_updated"
	EventWishlist EventKind = "wishlist_updated"
	EventSession  EventKind = "session_updated"
)

// Event signale qu'un état visiteur a changé ; l'abonné relit l'état dans le store.
type Event struct {
	VisitorID string
	Kind      EventKind
}

// Hub diffuse les événements aux abonnés d'un visiteur (websocket panier).
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe renvoie un canal d'événements et la fonction de désabonnement.
func (h *Hub) Subscribe(visitorID string) (<-chan Event, func()) {
	ch := make(chan Event, 8)

	h.mu.Lock()
	if h.subs[visitorID] == nil {
		h.subs[visitorID] = make(map[chan Event]struct{})
	}
	h.subs[visitorID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[visitorID], ch)
			if len(h.subs[visitorID]) == 0 {
				delete(h.subs, visitorID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish ne bloque jamais : un abonné lent perd l'événement, il relira l'état au suivant.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[ev.VisitorID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *Hub) Subscribers(visitorID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[visitorID])
}
