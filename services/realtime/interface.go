package realtime

import (
	"context"
	"sync"

	"sokoni/models"
)

// Channel carries payment-status changes keyed by transaction reference.
type Channel interface {
	Publish(ctx context.Context, ref string, ev models.PaymentEvent) error
	// Subscribe starts delivering events for ref. The caller owns the returned
	// subscription and must Close it on a terminal status or teardown.
	Subscribe(ctx context.Context, ref string) (*Subscription, error)
}

// Subscription is a cancellable, typed stream of payment events.
type Subscription struct {
	Events <-chan models.PaymentEvent

	once    sync.Once
	closeFn func() error
}

func newSubscription(events <-chan models.PaymentEvent, closeFn func() error) *Subscription {
	return &Subscription{Events: events, closeFn: closeFn}
}

// Close stops delivery. It is safe to call more than once.
func (s *Subscription) Close() error {
	var err error
	s.once.Do(func() {
		if s.closeFn != nil {
			err = s.closeFn()
		}
	})
	return err
}

func channelName(ref string) string {
	return "payments:" + ref
}
