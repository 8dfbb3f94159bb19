package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	bookingRepo "sokoni/database/repository/bookings"
	catalogueRepo "sokoni/database/repository/catalogue"
	paymentRepo "sokoni/database/repository/payments"
	"sokoni/models"
)

type memAvailability struct {
	mu      sync.Mutex
	rules   map[string]models.AvailabilityRule // provider|weekday
	readErr error
}

func newMemAvailability(rules ...models.AvailabilityRule) *memAvailability {
	m := &memAvailability{rules: make(map[string]models.AvailabilityRule)}
	for _, r := range rules {
		m.rules[r.ProviderID+"|"+r.Weekday] = r
	}
	return m
}

func (m *memAvailability) GetRule(_ context.Context, providerID, weekday string) (*models.AvailabilityRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	r, ok := m.rules[providerID+"|"+weekday]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memAvailability) ListRules(_ context.Context, providerID string) ([]models.AvailabilityRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AvailabilityRule
	for _, r := range m.rules {
		if r.ProviderID == providerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (m *memAvailability) UpsertRule(_ context.Context, rule models.AvailabilityRule) (*models.AvailabilityRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := rule.ProviderID + "|" + rule.Weekday
	if prev, ok := m.rules[key]; ok {
		rule.ID = prev.ID
	} else {
		rule.ID = "rule-" + rule.Weekday
	}
	m.rules[key] = rule
	return &rule, nil
}

func (m *memAvailability) EnsureIndexes(context.Context) error { return nil }

type memBookings struct {
	mu        sync.Mutex
	items     map[string]models.Booking
	createErr error
	listErr   error
	deleted   []string
}

func newMemBookings(existing ...models.Booking) *memBookings {
	m := &memBookings{items: make(map[string]models.Booking)}
	for _, b := range existing {
		m.items[b.ID] = b
	}
	return m
}

func (m *memBookings) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.items[b.ID] = *b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return &b, nil
}

func (m *memBookings) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return bookingRepo.ErrNotFound
	}
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memBookings) ListForDay(_ context.Context, providerID, serviceID string, from, to time.Time) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Booking
	for _, b := range m.items {
		if b.ProviderID == providerID && b.ServiceID == serviceID &&
			!b.BookingDate.Before(from) && b.BookingDate.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id string, expected, next models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok || b.Status != expected {
		return bookingRepo.ErrStatusChanged
	}
	b.Status = next
	m.items[id] = b
	return nil
}

func (m *memBookings) SetPaymentStatus(_ context.Context, id string, payment models.PaymentStatus, status *models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok || b.PaymentStatus != models.PaymentPending {
		return bookingRepo.ErrStatusChanged
	}
	if status != nil {
		if b.Status != models.BookingPending {
			return bookingRepo.ErrStatusChanged
		}
		b.Status = *status
	}
	b.PaymentStatus = payment
	m.items[id] = b
	return nil
}

func (m *memBookings) EnsureIndexes(context.Context) error { return nil }

func (m *memBookings) get(id string) (models.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	return b, ok
}

func (m *memBookings) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type memPayments struct {
	mu        sync.Mutex
	items     map[string]models.Payment
	createErr error
}

func newMemPayments() *memPayments {
	return &memPayments{items: make(map[string]models.Payment)}
}

func (m *memPayments) Create(_ context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.items[p.ID] = *p
	return nil
}

func (m *memPayments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return paymentRepo.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memPayments) find(match func(models.Payment) bool) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if match(p) {
			return &p, nil
		}
	}
	return nil, paymentRepo.ErrNotFound
}

func (m *memPayments) GetByTransactionRef(_ context.Context, ref string) (*models.Payment, error) {
	return m.find(func(p models.Payment) bool { return p.TransactionRef == ref })
}

func (m *memPayments) GetByCheckoutRequestID(_ context.Context, id string) (*models.Payment, error) {
	return m.find(func(p models.Payment) bool { return p.CheckoutRequestID == id })
}

func (m *memPayments) SetCheckoutRequestID(_ context.Context, id, checkout string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return paymentRepo.ErrNotFound
	}
	p.CheckoutRequestID = checkout
	m.items[id] = p
	return nil
}

func (m *memPayments) Settle(_ context.Context, id string, status models.PaymentStatus, desc string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return paymentRepo.ErrNotFound
	}
	if !p.Status.CanTransitionTo(status) {
		return paymentRepo.ErrAlreadySettled
	}
	p.Status, p.ResultDescription = status, desc
	m.items[id] = p
	return nil
}

func (m *memPayments) EnsureIndexes(context.Context) error { return nil }

func (m *memPayments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type memCatalogue struct {
	services map[string]models.Service
}

func (m *memCatalogue) GetService(_ context.Context, id string) (*models.Service, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, catalogueRepo.ErrNotFound
	}
	return &s, nil
}

func (m *memCatalogue) GetProduct(context.Context, string) (*models.Product, error) {
	return nil, catalogueRepo.ErrNotFound
}

type fakeGateway struct {
	mu    sync.Mutex
	resp  *models.PushResponse
	err   error
	calls []models.PaymentRequest
}

func (g *fakeGateway) InitiatePush(_ context.Context, req models.PaymentRequest) (*models.PushResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return g.resp, nil
}

type notice struct {
	userID, title string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notice
}

func (n *recordingNotifier) Notify(_ context.Context, userID, title, _ string, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notice{userID, title})
	return nil
}

func (n *recordingNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.title)
	}
	return out
}

type recordingReminders struct {
	mu        sync.Mutex
	bookings  []string
	cancelled []string
	err       error
}

func (r *recordingReminders) ScheduleReminder(_ context.Context, b models.Booking, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, b.ID)
	return r.err
}

func (r *recordingReminders) CancelReminder(_ context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, bookingID)
	return r.err
}

func (r *recordingReminders) cancelledIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.cancelled...)
}

func (r *recordingReminders) scheduled() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.bookings...)
}

var errBoom = errors.New("boom")
