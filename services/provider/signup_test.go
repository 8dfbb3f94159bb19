package provider

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	providerRepo "sokoni/database/repository/providers"
	"sokoni/models"

	"go.uber.org/zap"
)

type memProviders struct {
	byUser map[string]models.Provider
}

func (m *memProviders) Create(_ context.Context, p *models.Provider) error {
	if _, ok := m.byUser[p.UserID]; ok {
		return providerRepo.ErrAlreadyRegistered
	}
	m.byUser[p.UserID] = *p
	return nil
}

func (m *memProviders) GetByUserID(_ context.Context, userID string) (*models.Provider, error) {
	p, ok := m.byUser[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memProviders) EnsureIndexes(context.Context) error { return nil }

func step(t *testing.T, name string, data any) models.RawRegistrationStep {
	t.Helper()
	b, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	return models.RawRegistrationStep{Step: name, Data: b}
}

func wizard(t *testing.T, phone string) []models.RawRegistrationStep {
	return []models.RawRegistrationStep{
		step(t, "business", models.BusinessStep{BusinessName: "Wanjiku Beauty", ProviderType: "Service"}),
		step(t, "contact", models.ContactStep{Email: "hello@wanjiku.co.ke", Phone: phone}),
		step(t, "location", models.LocationStep{County: "Nairobi", Town: "Westlands"}),
		step(t, "catalogue", models.CatalogueStep{Categories: []string{"hair", "nails"}}),
	}
}

func newTestService() *DefaultProviderService {
	s := NewProviderService(&memProviders{byUser: map[string]models.Provider{}}, zap.NewNop())
	s.Now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestRegister(t *testing.T) {
	s := newTestService()
	p, err := s.Register(context.Background(), "user-1", wizard(t, "0712 345 678"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" || p.UserID != "user-1" || p.Status != "active" {
		t.Fatalf("unexpected provider %+v", p)
	}
	if p.ProviderType != "service" || p.Phone != "254712345678" {
		t.Fatalf("fields not normalized: %+v", p)
	}

	got, err := s.GetByUser(context.Background(), "user-1")
	if err != nil || got.ID != p.ID {
		t.Fatalf("lookup failed: %+v, %v", got, err)
	}
	if _, err := s.Register(context.Background(), "user-1", wizard(t, "0712345678")); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if _, err := s.GetByUser(context.Background(), "user-2"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	s := newTestService()
	steps := wizard(t, "0712345678")

	cases := map[string][]models.RawRegistrationStep{
		"missing step": steps[:3],
		"bad phone":    wizard(t, "12345"),
		"unknown step": append(append([]models.RawRegistrationStep{}, steps...), models.RawRegistrationStep{Step: "payout", Data: json.RawMessage(`{}`)}),
		"bad type": {
			step(t, "business", models.BusinessStep{BusinessName: "X", ProviderType: "wholesale"}),
			steps[1], steps[2], steps[3],
		},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Register(context.Background(), "user-9", in); !errors.Is(err, ErrInvalidRegistration) {
				t.Fatalf("expected ErrInvalidRegistration, got %v", err)
			}
		})
	}
}
