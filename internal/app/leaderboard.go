package app

import (
	"sync"

	"trivia-quiz-service/internal/domain"
)

type subscriber struct {
	ch chan domain.Leaderboard
	// fed is set once Publish has delivered to ch, making the initial snapshot stale.
	fed bool
}

// LeaderboardHub fans leaderboard snapshots out to live subscribers, keyed by category
// ("" for the overall board).
type LeaderboardHub struct {
	mu          sync.Mutex
	subscribers map[string]map[*subscriber]struct{}
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{
		subscribers: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers a subscriber, then reads initial and queues it as the first message
// unless a publish already reached the subscriber. Registering first means a save made while
// initial runs is still delivered.
// The caller must invoke the returned cancel function to avoid leaks.
func (h *LeaderboardHub) Subscribe(category string, initial func() (domain.Leaderboard, error)) (<-chan domain.Leaderboard, func(), error) {
	sub := &subscriber{ch: make(chan domain.Leaderboard, 8)}

	h.mu.Lock()
	subs, ok := h.subscribers[category]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.subscribers[category] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subscribers[category]
		if !ok {
			return
		}
		if _, ok := subs[sub]; ok {
			delete(subs, sub)
			close(sub.ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, category)
		}
	}

	lb, err := initial()
	if err != nil {
		cancel()
		return nil, nil, err
	}
	h.mu.Lock()
	if _, live := h.subscribers[category][sub]; live && !sub.fed {
		push(sub.ch, lb)
	}
	h.mu.Unlock()
	return sub.ch, cancel, nil
}

// Watched reports whether anyone is subscribed to category.
func (h *LeaderboardHub) Watched(category string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[category]) > 0
}

// Publish delivers lb to every subscriber of lb.Category. A full subscriber buffer loses its
// oldest snapshot instead of blocking the publisher.
func (h *LeaderboardHub) Publish(lb domain.Leaderboard) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers[lb.Category] {
		sub.fed = true
		push(sub.ch, lb)
	}
}

// push must be called with h.mu held so only one goroutine sends to ch.
func push(ch chan domain.Leaderboard, lb domain.Leaderboard) {
	select {
	case ch <- lb:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- lb
	}
}
