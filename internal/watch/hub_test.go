package watch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripnest-backend/internal/models"
)

func countingLoader(loads *atomic.Int64) LoadFunc {
	return func(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
		loads.Add(1)
		return &Snapshot{
			Trips:       []models.TripSnapshot{},
			Invitations: []models.PendingInvite{},
		}, nil
	}
}

func waitForDeliveries(t *testing.T, ch <-chan *Snapshot, n int) []*Snapshot {
	t.Helper()
	got := make([]*Snapshot, 0, n)
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case snap := <-ch:
			got = append(got, snap)
		case <-timeout:
			t.Fatalf("timed out waiting for %d deliveries, got %d", n, len(got))
		}
	}
	return got
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	var loads atomic.Int64
	hub := NewHub(countingLoader(&loads))

	ch := make(chan *Snapshot, 8)
	sub := hub.Subscribe("trips", uuid.New(), func(s *Snapshot) { ch <- s })
	defer sub.Cancel()

	got := waitForDeliveries(t, ch, 1)
	require.NotNil(t, got[0])
}

func TestBroadcastWakesSubscribers(t *testing.T) {
	var loads atomic.Int64
	hub := NewHub(countingLoader(&loads))

	ch := make(chan *Snapshot, 8)
	sub := hub.Subscribe("trips", uuid.New(), func(s *Snapshot) { ch <- s })
	defer sub.Cancel()

	waitForDeliveries(t, ch, 1)
	hub.Broadcast()
	waitForDeliveries(t, ch, 1)
}

func TestResubscribeCancelsPrevious(t *testing.T) {
	var loads atomic.Int64
	hub := NewHub(countingLoader(&loads))
	userID := uuid.New()

	var firstCount atomic.Int64
	first := hub.Subscribe("trips", userID, func(s *Snapshot) { firstCount.Add(1) })
	_ = first

	ch := make(chan *Snapshot, 8)
	second := hub.Subscribe("trips", userID, func(s *Snapshot) { ch <- s })
	defer second.Cancel()

	waitForDeliveries(t, ch, 1)
	before := firstCount.Load()

	// Broadcasts reach only the replacement
	hub.Broadcast()
	waitForDeliveries(t, ch, 1)
	assert.Equal(t, before, firstCount.Load())
}

func TestCancelStopsDelivery(t *testing.T) {
	var loads atomic.Int64
	hub := NewHub(countingLoader(&loads))

	ch := make(chan *Snapshot, 8)
	sub := hub.Subscribe("trips", uuid.New(), func(s *Snapshot) { ch <- s })
	waitForDeliveries(t, ch, 1)

	sub.Cancel()
	hub.Broadcast()

	select {
	case <-ch:
		t.Fatal("delivery after Cancel")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	var loads atomic.Int64
	hub := NewHub(countingLoader(&loads))

	sub := hub.Subscribe("trips", uuid.New(), func(s *Snapshot) {})
	sub.Cancel()
	sub.Cancel()
}

func TestStaleHandleDoesNotCancelReplacement(t *testing.T) {
	var loads atomic.Int64
	hub := NewHub(countingLoader(&loads))
	userID := uuid.New()

	stale := hub.Subscribe("trips", userID, func(s *Snapshot) {})

	ch := make(chan *Snapshot, 8)
	current := hub.Subscribe("trips", userID, func(s *Snapshot) { ch <- s })
	defer current.Cancel()
	waitForDeliveries(t, ch, 1)

	// Cancelling the replaced handle must leave the new one running
	stale.Cancel()
	hub.Broadcast()
	waitForDeliveries(t, ch, 1)
}

func TestSeparatePurposesAreIndependent(t *testing.T) {
	var loads atomic.Int64
	hub := NewHub(countingLoader(&loads))
	userID := uuid.New()

	chA := make(chan *Snapshot, 8)
	chB := make(chan *Snapshot, 8)
	subA := hub.Subscribe("trips", userID, func(s *Snapshot) { chA <- s })
	defer subA.Cancel()
	subB := hub.Subscribe("sidebar", userID, func(s *Snapshot) { chB <- s })
	defer subB.Cancel()

	waitForDeliveries(t, chA, 1)
	waitForDeliveries(t, chB, 1)

	hub.Broadcast()
	waitForDeliveries(t, chA, 1)
	waitForDeliveries(t, chB, 1)
}
