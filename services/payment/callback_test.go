package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	paymentRepo "sokoni/database/repository/payments"
	"sokoni/models"
	"sokoni/services/realtime"

	"go.uber.org/zap"
)

type memPayments struct {
	mu   sync.Mutex
	byID map[string]*models.Payment
}

func (m *memPayments) Create(_ context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPayments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memPayments) find(match func(*models.Payment) bool) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, paymentRepo.ErrNotFound
}

func (m *memPayments) GetByTransactionRef(_ context.Context, ref string) (*models.Payment, error) {
	return m.find(func(p *models.Payment) bool { return p.TransactionRef == ref })
}

func (m *memPayments) GetByCheckoutRequestID(_ context.Context, id string) (*models.Payment, error) {
	return m.find(func(p *models.Payment) bool { return p.CheckoutRequestID == id })
}

func (m *memPayments) SetCheckoutRequestID(_ context.Context, id, checkout string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].CheckoutRequestID = checkout
	return nil
}

func (m *memPayments) Settle(_ context.Context, id string, status models.PaymentStatus, desc string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.byID[id]
	if p.Status != models.PaymentPending {
		return paymentRepo.ErrAlreadySettled
	}
	p.Status = status
	p.ResultDescription = desc
	return nil
}

func (m *memPayments) EnsureIndexes(context.Context) error { return nil }

func newCallbackFixture(t *testing.T) (*CallbackService, *memPayments, *realtime.MemoryChannel) {
	t.Helper()
	repo := &memPayments{byID: map[string]*models.Payment{}}
	_ = repo.Create(context.Background(), &models.Payment{
		ID: "pay-1", BookingID: "bk-1", TransactionRef: "bk-1-1", CheckoutRequestID: "ws_CO_1", Status: models.PaymentPending,
	})
	ch := realtime.NewMemoryChannel()
	return &CallbackService{Repo: repo, Channel: ch, Logger: zap.NewNop()}, repo, ch
}

func callback(checkout string, code int, desc string) models.PaymentCallback {
	var cb models.PaymentCallback
	cb.Body.StkCallback.CheckoutRequestID = checkout
	cb.Body.StkCallback.ResultCode = code
	cb.Body.StkCallback.ResultDesc = desc
	return cb
}

func TestHandleCallbackSettlesAndPublishes(t *testing.T) {
	svc, repo, ch := newCallbackFixture(t)
	sub, _ := ch.Subscribe(context.Background(), "bk-1-1")
	defer sub.Close()

	ev, err := svc.HandleCallback(context.Background(), callback("ws_CO_1", 0, "The service request is processed successfully."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Status != models.PaymentCompleted || ev.BookingID != "bk-1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if repo.byID["pay-1"].Status != models.PaymentCompleted {
		t.Fatalf("payment not settled")
	}
	select {
	case got := <-sub.Events:
		if got.Status != models.PaymentCompleted {
			t.Fatalf("unexpected published status %s", got.Status)
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestHandleCallbackReplayKeepsFirstOutcome(t *testing.T) {
	svc, _, _ := newCallbackFixture(t)
	ctx := context.Background()

	if _, err := svc.HandleCallback(ctx, callback("ws_CO_1", 1032, "Request cancelled by user")); err != nil {
		t.Fatalf("first callback: %v", err)
	}
	ev, err := svc.HandleCallback(ctx, callback("ws_CO_1", 0, "late success"))
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if ev.Status != models.PaymentFailed || ev.Description != "Request cancelled by user" {
		t.Fatalf("replay must report stored outcome, got %+v", ev)
	}
}

func TestHandleCallbackUnknownCheckout(t *testing.T) {
	svc, _, _ := newCallbackFixture(t)
	_, err := svc.HandleCallback(context.Background(), callback("ws_CO_404", 0, ""))
	if !errors.Is(err, paymentRepo.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.HandleCallback(context.Background(), models.PaymentCallback{}); err == nil {
		t.Fatal("expected error for empty callback")
	}
}

type recordingOutcomes struct {
	mu      sync.Mutex
	applied []string
	err     error
}

func (r *recordingOutcomes) ApplyPaymentOutcome(_ context.Context, bookingID string, status models.PaymentStatus, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, bookingID+":"+string(status))
	return r.err
}

func TestHandleCallbackAppliesOutcomeToBooking(t *testing.T) {
	svc, _, _ := newCallbackFixture(t)
	outcomes := &recordingOutcomes{}
	svc.Outcomes = outcomes

	ctx := context.Background()
	if _, err := svc.HandleCallback(ctx, callback("ws_CO_1", 0, "ok")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A replay re-applies the stored outcome.
	if _, err := svc.HandleCallback(ctx, callback("ws_CO_1", 1, "late failure")); err != nil {
		t.Fatalf("replay: %v", err)
	}
	want := []string{"bk-1:completed", "bk-1:completed"}
	if len(outcomes.applied) != 2 || outcomes.applied[0] != want[0] || outcomes.applied[1] != want[1] {
		t.Fatalf("applied %v, want %v", outcomes.applied, want)
	}
}

func TestHandleCallbackOutcomeErrorIsReturned(t *testing.T) {
	svc, repo, ch := newCallbackFixture(t)
	boom := errors.New("mongo down")
	svc.Outcomes = &recordingOutcomes{err: boom}
	sub, _ := ch.Subscribe(context.Background(), "bk-1-1")
	defer sub.Close()

	if _, err := svc.HandleCallback(context.Background(), callback("ws_CO_1", 0, "ok")); !errors.Is(err, boom) {
		t.Fatalf("expected outcome error, got %v", err)
	}
	if repo.byID["pay-1"].Status != models.PaymentCompleted {
		t.Fatal("payment should stay settled")
	}
	select {
	case ev := <-sub.Events:
		t.Fatalf("no event expected before the booking is updated, got %+v", ev)
	case <-time.After(20 * time.Millisecond):
	}
}
