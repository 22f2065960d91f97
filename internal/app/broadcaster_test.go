package app

import (
	"testing"

	"colmeia-quiz-service/internal/domain"
)

func TestBroadcasterDropsStaleSnapshots(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(domain.DashboardState{GeneralScore: 0})
	defer cancel()

	for i := 1; i <= 20; i++ {
		b.Publish(domain.DashboardState{GeneralScore: float64(i)})
	}

	var last domain.DashboardState
	for len(ch) > 0 {
		last = <-ch
	}
	if last.GeneralScore != 20 {
		t.Fatalf("expected newest snapshot to survive, got %v", last.GeneralScore)
	}
}

func TestBroadcasterCancelClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(domain.DashboardState{})
	<-ch
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	if b.Len() != 0 {
		t.Fatalf("expected no subscribers, got %d", b.Len())
	}
}
