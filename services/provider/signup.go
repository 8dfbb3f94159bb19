package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	providerRepo "sokoni/database/repository/providers"
	"sokoni/models"
	"sokoni/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var providerTypes = map[string]bool{"service": true, "craft": true}

func (s *DefaultProviderService) Register(ctx context.Context, userID string, raw []models.RawRegistrationStep) (*models.Provider, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidRegistration)
	}
	steps := make([]models.RegistrationStep, 0, len(raw))
	for _, r := range raw {
		step, err := r.Decode()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
		}
		steps = append(steps, step)
	}
	p, err := models.CombineRegistration(steps...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}

	p.ProviderType = strings.ToLower(strings.TrimSpace(p.ProviderType))
	if !providerTypes[p.ProviderType] {
		return nil, fmt.Errorf("%w: providerType must be service or craft", ErrInvalidRegistration)
	}
	if !strings.Contains(p.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidRegistration)
	}
	phone, err := payment.NormalizePhone(p.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}
	p.Phone = phone

	p.ID = uuid.New().String()
	p.UserID = userID
	p.Status = "active"
	p.CreatedAt = s.Now()

	if err := s.Repo.Create(ctx, &p); err != nil {
		if errors.Is(err, providerRepo.ErrAlreadyRegistered) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	s.Logger.Info("provider registered",
		zap.String("provider", p.ID), zap.String("user", userID), zap.String("type", p.ProviderType))
	return &p, nil
}
