package realtime

import (
	"context"
	"sync"

	"sokoni/models"
)

// MemoryChannel is an in-process Channel used when Redis is not configured and in tests.
type MemoryChannel struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan models.PaymentEvent
}

func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{subs: make(map[string]map[int]chan models.PaymentEvent)}
}

// Publish delivers ev to current subscribers of ref. A subscriber whose buffer is
// full misses the event rather than blocking the publisher.
func (c *MemoryChannel) Publish(_ context.Context, ref string, ev models.PaymentEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs[ref] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (c *MemoryChannel) Subscribe(_ context.Context, ref string) (*Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan models.PaymentEvent, 4)
	if c.subs[ref] == nil {
		c.subs[ref] = make(map[int]chan models.PaymentEvent)
	}
	c.subs[ref][id] = ch

	return newSubscription(ch, func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs[ref], id)
		if len(c.subs[ref]) == 0 {
			delete(c.subs, ref)
		}
		close(ch)
		return nil
	}), nil
}

// Subscribers returns the number of open subscriptions for ref.
func (c *MemoryChannel) Subscribers(ref string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs[ref])
}
