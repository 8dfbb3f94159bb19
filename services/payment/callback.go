package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	paymentRepo "sokoni/database/repository/payments"
	"sokoni/models"
	"sokoni/services/realtime"

	"go.uber.org/zap"
)

// OutcomeApplier records a settled payment on the booking it pays for.
type OutcomeApplier interface {
	ApplyPaymentOutcome(ctx context.Context, bookingID string, status models.PaymentStatus, description string) error
}

// CallbackService turns gateway callbacks into settled payment records, booking
// outcomes and realtime payment events.
type CallbackService struct {
	Repo     paymentRepo.PaymentRepository
	Outcomes OutcomeApplier
	Channel  realtime.Channel
	Logger   *zap.Logger
}

// OutcomeFromResultCode maps the gateway result code: 0 is success, anything else
// (cancelled by user, timeout, insufficient funds) is a failure.
func OutcomeFromResultCode(code int) models.PaymentStatus {
	if code == 0 {
		return models.PaymentCompleted
	}
	return models.PaymentFailed
}

// HandleCallback settles the payment identified by the callback's checkout request id
// applies the outcome to its booking and publishes it. Replayed callbacks for an
// already settled payment re-apply and re-publish the stored outcome.
func (s *CallbackService) HandleCallback(ctx context.Context, cb models.PaymentCallback) (*models.PaymentEvent, error) {
	stk := cb.Body.StkCallback
	if stk.CheckoutRequestID == "" {
		return nil, errors.New("callback missing CheckoutRequestID")
	}

	p, err := s.Repo.GetByCheckoutRequestID(ctx, stk.CheckoutRequestID)
	if err != nil {
		return nil, fmt.Errorf("lookup payment for checkout %s: %w", stk.CheckoutRequestID, err)
	}

	status := OutcomeFromResultCode(stk.ResultCode)
	description := stk.ResultDesc
	if err := s.Repo.Settle(ctx, p.ID, status, description); err != nil {
		if !errors.Is(err, paymentRepo.ErrAlreadySettled) {
			return nil, fmt.Errorf("settle payment %s: %w", p.ID, err)
		}
		s.Logger.Info("duplicate payment callback", zap.String("payment", p.ID))
		fresh, ferr := s.Repo.GetByTransactionRef(ctx, p.TransactionRef)
		if ferr != nil {
			return nil, fmt.Errorf("reload payment %s: %w", p.ID, ferr)
		}
		status, description = fresh.Status, fresh.ResultDescription
	}

	if s.Outcomes != nil {
		if err := s.Outcomes.ApplyPaymentOutcome(ctx, p.BookingID, status, description); err != nil {
			// Settled but not applied; a replayed callback takes the duplicate path and retries.
			return nil, fmt.Errorf("apply outcome to booking %s: %w", p.BookingID, err)
		}
	}

	ev := models.PaymentEvent{
		TransactionRef: p.TransactionRef,
		PaymentID:      p.ID,
		BookingID:      p.BookingID,
		Status:         status,
		Description:    description,
		At:             time.Now(),
	}
	if err := s.Channel.Publish(ctx, p.TransactionRef, ev); err != nil {
		// The record is settled; watchers reconcile from the store on timeout.
		s.Logger.Error("failed to publish payment event", zap.String("ref", p.TransactionRef), zap.Error(err))
	}
	return &ev, nil
}
