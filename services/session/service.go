package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogueRepo "sokoni/database/repository/catalogue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrForbidden      = errors.New("session belongs to another user")
	ErrOutOfStock     = errors.New("not enough stock")
	ErrUnknownProduct = errors.New("unknown product")
)

// Service creates, updates and ends sessions.
type Service struct {
	Store     Store
	Catalogue catalogueRepo.CatalogueRepository
	Logger    *zap.Logger
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start opens a fresh session for user, typically right after login.
func (s *Service) Start(ctx context.Context, user User) (*State, error) {
	if user.ID == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidAction)
	}
	now := s.now()
	st := State{
		ID:        uuid.New().String(),
		User:      user,
		Cart:      []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Save(ctx, st); err != nil {
		return nil, err
	}
	s.Logger.Debug("session started", zap.String("session", st.ID), zap.String("user", user.ID))
	return &st, nil
}

// Get loads a session owned by userID.
func (s *Service) Get(ctx context.Context, id, userID string) (*State, error) {
	st, err := s.Store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.User.ID != userID {
		return nil, ErrForbidden
	}
	return st, nil
}

// dispatchAttempts bounds retries after a concurrent update of the same session.
const dispatchAttempts = 3

// Dispatch validates a, resolves catalogue data it needs, reduces and persists.
// The save is conditional on the version that was loaded; on a conflict the
// action is re-applied to the fresh state.
func (s *Service) Dispatch(ctx context.Context, id, userID string, a Action) (*State, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	for attempt := 1; ; attempt++ {
		next, err := s.dispatchOnce(ctx, id, userID, a)
		if !errors.Is(err, ErrVersionConflict) || attempt == dispatchAttempts {
			return next, err
		}
		s.Logger.Debug("session changed concurrently; retrying",
			zap.String("session", id), zap.Int("attempt", attempt))
	}
}

func (s *Service) dispatchOnce(ctx context.Context, id, userID string, a Action) (*State, error) {
	st, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if a.Type == AddToCart || (a.Type == SetQuantity && a.Quantity > 0) {
		p, err := s.Catalogue.GetProduct(ctx, a.ProductID)
		if errors.Is(err, catalogueRepo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, a.ProductID)
		}
		if err != nil {
			return nil, err
		}
		want := a.Quantity
		if a.Type == AddToCart {
			want += CartQuantity(*st, a.ProductID)
		}
		if want > p.Stock {
			return nil, fmt.Errorf("%w: %s has %d left", ErrOutOfStock, p.Name, p.Stock)
		}
		a.Item = &CartItem{ProductID: p.ID, ProviderID: p.ProviderID, Name: p.Name, UnitPrice: p.Price}
	}

	next := Reduce(*st, a)
	if next.Version == st.Version {
		return st, nil
	}
	next.UpdatedAt = s.now()
	if err := s.Store.SaveIfVersion(ctx, next, st.Version); err != nil {
		return nil, err
	}
	return &next, nil
}

// End disposes of the session on logout.
func (s *Service) End(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.Logger.Debug("session ended", zap.String("session", id))
	return nil
}
