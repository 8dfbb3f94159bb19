package provider

import (
	"context"

	"sokoni/models"
)

func (s *DefaultProviderService) GetByUser(ctx context.Context, userID string) (*models.Provider, error) {
	p, err := s.Repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotRegistered
	}
	return p, nil
}
