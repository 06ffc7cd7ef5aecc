package inmemory

import (
	"sync"

	bankdomain "finance-app-go/internal/domain/bank"
)

const defaultSubscriberBuffer = 16

// BankHub is the process-local registry of live bank-amount viewers, keyed by group.
// Delivery is at most once: a subscriber whose buffer is full is dropped and has to reload.
// Running more than one instance needs a shared broker behind the same Publish contract.
type BankHub struct {
	mu     sync.RWMutex
	groups map[int64]map[*Subscription]struct{}
	buffer int
	closed bool
}

// Subscription is one connected client. The events channel is never closed; Done is closed when
// the hub drops the subscription.
type Subscription struct {
	groupID int64
	events  chan bankdomain.Event
	done    chan struct{}
	once    sync.Once
}

func (s *Subscription) GroupID() int64 {
	return s.groupID
}

func (s *Subscription) Events() <-chan bankdomain.Event {
	return s.events
}

func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) stop() {
	s.once.Do(func() {
		close(s.done)
	})
}

func NewBankHub(buffer int) *BankHub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &BankHub{
		groups: make(map[int64]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

func (h *BankHub) Subscribe(groupID int64) *Subscription {
	sub := &Subscription{
		groupID: groupID,
		events:  make(chan bankdomain.Event, h.buffer),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.stop()
		return sub
	}
	subs, ok := h.groups[groupID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.groups[groupID] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Unsubscribe is safe to call more than once and concurrently with Publish.
func (h *BankHub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	if subs, ok := h.groups[sub.groupID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.groups, sub.groupID)
		}
	}
	h.mu.Unlock()

	sub.stop()
}

// Publish never blocks. It iterates over a copy of the group's subscribers so removals during
// delivery do not touch the set being walked.
func (h *BankHub) Publish(groupID int64, event bankdomain.Event) {
	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.groups[groupID]))
	for sub := range h.groups[groupID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-sub.done:
			continue
		default:
		}

		select {
		case sub.events <- event:
		default:
			h.Unsubscribe(sub)
		}
	}
}

func (h *BankHub) Subscribers(groupID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupID])
}

// Close drops every subscriber. Later subscriptions are returned already stopped.
func (h *BankHub) Close() {
	h.mu.Lock()
	groups := h.groups
	h.groups = make(map[int64]map[*Subscription]struct{})
	h.closed = true
	h.mu.Unlock()

	for _, subs := range groups {
		for sub := range subs {
			sub.stop()
		}
	}
}
