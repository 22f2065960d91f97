package app

import (
	"sync"

	"colmeia-quiz-service/internal/domain"
)

// Broadcaster fans dashboard snapshots out to live subscribers.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[chan domain.DashboardState]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: make(map[chan domain.DashboardState]struct{})}
}

// Subscribe registers a subscriber and primes it with initial.
// The caller must invoke the returned cancel function to avoid leaks.
func (b *Broadcaster) Subscribe(initial domain.DashboardState) (<-chan domain.DashboardState, func()) {
	ch := make(chan domain.DashboardState, 8)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	ch <- initial

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers state to every subscriber without blocking.
func (b *Broadcaster) Publish(state domain.DashboardState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		snapshot := state.Clone()
		select {
		case ch <- snapshot:
		default:
			// Slow reader: drop its oldest pending snapshot so the newest always lands.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

// Len reports the number of active subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
