package provider

import (
	"context"
	"time"

	providerRepo "sokoni/database/repository/providers"
	"sokoni/models"

	"go.uber.org/zap"
)

type ProviderService interface {
	// Register combines the wizard steps into a provider record owned by userID.
	Register(ctx context.Context, userID string, steps []models.RawRegistrationStep) (*models.Provider, error)
	// GetByUser resolves the provider record behind an authenticated user.
	GetByUser(ctx context.Context, userID string) (*models.Provider, error)
}

type DefaultProviderService struct {
	Repo   providerRepo.ProviderRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func NewProviderService(repo providerRepo.ProviderRepository, logger *zap.Logger) *DefaultProviderService {
	return &DefaultProviderService{Repo: repo, Logger: logger, Now: time.Now}
}
