// Package watch delivers full-snapshot change notifications to
// subscribed callers. Each subscriber owns an explicit handle; creating
// a new subscription for the same (purpose, user) cancels the previous
// one, so duplicate delivery cannot occur.
package watch

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"tripnest-backend/internal/models"
)

// Snapshot is one delivery: the user's trips plus their pending
// invitations, loaded in full after a change.
type Snapshot struct {
	Trips       []models.TripSnapshot
	Invitations []models.PendingInvite
}

// LoadFunc loads the current snapshot for a user.
type LoadFunc func(ctx context.Context, userID uuid.UUID) (*Snapshot, error)

type subKey struct {
	purpose string
	userID  uuid.UUID
}

// Hub fans out change notifications. Mutating handlers call Broadcast
// after a successful commit; the hub recomputes each subscriber's
// snapshot asynchronously and delivers the latest state. Pending
// notifications coalesce, so subscribers always converge on the newest
// snapshot without a latency bound.
type Hub struct {
	load LoadFunc

	mu   sync.Mutex
	subs map[subKey]*Subscription
}

// NewHub creates a hub backed by the given snapshot loader.
func NewHub(load LoadFunc) *Hub {
	return &Hub{
		load: load,
		subs: make(map[subKey]*Subscription),
	}
}

// Subscription is a caller-owned handle for one active subscription.
type Subscription struct {
	hub     *Hub
	key     subKey
	deliver func(*Snapshot)
	kick    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Subscribe registers deliver for the given purpose and user and sends
// an initial snapshot. Any prior subscription with the same purpose and
// user is cancelled first.
func (h *Hub) Subscribe(purpose string, userID uuid.UUID, deliver func(*Snapshot)) *Subscription {
	key := subKey{purpose: purpose, userID: userID}

	sub := &Subscription{
		hub:     h,
		key:     key,
		deliver: deliver,
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	if prev, ok := h.subs[key]; ok {
		prev.stop()
	}
	h.subs[key] = sub
	h.mu.Unlock()

	go sub.run()
	sub.kick <- struct{}{}
	return sub
}

// Broadcast wakes every subscriber to recompute and deliver its
// snapshot. Wake-ups coalesce when a subscriber is already behind.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		select {
		case sub.kick <- struct{}{}:
		default:
		}
	}
}

func (s *Subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.kick:
			snap, err := s.hub.load(context.Background(), s.key.userID)
			if err != nil {
				log.Printf("watch: snapshot load failed for user %s: %v", s.key.userID, err)
				continue
			}
			select {
			case <-s.done:
				return
			default:
			}
			s.deliver(snap)
		}
	}
}

// stop halts delivery without touching the hub map; callers hold the lock.
func (s *Subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

// Cancel stops delivery and releases the subscription slot. Safe to call
// more than once; a handle replaced by a newer subscription does not
// cancel its replacement.
func (s *Subscription) Cancel() {
	s.hub.mu.Lock()
	if cur, ok := s.hub.subs[s.key]; ok && cur == s {
		delete(s.hub.subs, s.key)
	}
	s.hub.mu.Unlock()
	s.stop()
}
