package events

import (
	"sync"

	"github.com/bigsteppa/backend/internal/models"
)

// StatusChange is published whenever a challenge's lifecycle state moves,
// whether by an API call or by the lifecycle worker.
type StatusChange struct {
	ChallengeID string                 `json:"challengeId"`
	Status      models.ChallengeStatus `json:"status"`
	IsPaused    bool                   `json:"isPaused"`
}

const subscriberBuffer = 16

// Hub fans status-change events out to each user's connected clients.
// Slow subscribers drop events rather than block publishers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan StatusChange]struct{} // userID -> subscriber set
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[chan StatusChange]struct{}),
	}
}

// Subscribe registers a listener for one user's events. The returned
// cancel func must be called when the listener goes away.
func (h *Hub) Subscribe(userID string) (<-chan StatusChange, func()) {
	ch := make(chan StatusChange, subscriberBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan StatusChange]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// Publish delivers an event to every subscriber of the user
func (h *Hub) Publish(userID string, ev StatusChange) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[userID] {
		select {
		case ch <- ev:
		default:
			// subscriber is not keeping up; drop
		}
	}
}

// SubscriberCount reports how many listeners a user currently has
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
