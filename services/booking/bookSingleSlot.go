package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sokoni/models"
	"sokoni/services/payment"
	"sokoni/services/scheduler"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const compensationTimeout = 10 * time.Second

// SubmitBooking validates the selection against freshly derived slots, records a
// pending booking and payment, and pushes the payment to the customer's phone.
// Any failure before the gateway accepts the push removes what was written.
func (s *DefaultBookingService) SubmitBooking(ctx context.Context, customerID string, in models.BookingRequestInput) (*Submission, error) {
	s.init()
	if err := validateSubmission(customerID, in); err != nil {
		return nil, err
	}
	phone, err := payment.NormalizePhone(in.Phone)
	if err != nil {
		return nil, &ValidationError{Field: "phone", Reason: err.Error()}
	}
	day, err := scheduler.ParseDate(in.Date, s.Location)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	slot, err := scheduler.ParseTimeOfDay(in.Slot)
	if err != nil {
		return nil, &ValidationError{Field: "slot", Reason: "expected HH:MM"}
	}

	slotIn, err := s.loadSlotInputs(ctx, in.ProviderID, in.ServiceID, day)
	if err != nil {
		return nil, err
	}
	slots, _, err := s.computeSlots(slotIn)
	if err != nil {
		s.Logger.Warn("malformed availability rule", zap.String("provider", in.ProviderID), zap.Error(err))
	}
	if !scheduler.Contains(slots, slot.String()) {
		return nil, fmt.Errorf("%s on %s: %w", slot, in.Date, ErrSlotUnavailable)
	}

	now := s.Now()
	bk := models.Booking{
		ID:            uuid.New().String(),
		CustomerID:    customerID,
		ProviderID:    in.ProviderID,
		ServiceID:     in.ServiceID,
		BookingDate:   slot.On(slotIn.day, s.Location),
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		TotalAmount:   slotIn.service.Price,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.withIO(ctx, func(c context.Context) error { return s.Bookings.Create(c, &bk) }); err != nil {
		return nil, fmt.Errorf("%w: create booking: %v", ErrStoreWrite, err)
	}

	pay := models.Payment{
		ID:             uuid.New().String(),
		BookingID:      bk.ID,
		TransactionRef: fmt.Sprintf("%s-%d", bk.ID, now.UnixMilli()),
		Phone:          phone,
		Amount:         bk.TotalAmount,
		Status:         models.PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.withIO(ctx, func(c context.Context) error { return s.Payments.Create(c, &pay) }); err != nil {
		s.compensate(ctx, bk.ID, "")
		return nil, fmt.Errorf("%w: create payment: %v", ErrStoreWrite, err)
	}

	var resp *models.PushResponse
	err = s.withIO(ctx, func(c context.Context) error {
		var perr error
		resp, perr = s.Gateway.InitiatePush(c, models.PaymentRequest{
			Phone:       phone,
			Amount:      pay.Amount,
			Reference:   pay.TransactionRef,
			Description: "Booking " + slotIn.service.Name,
		})
		return perr
	})
	if err != nil {
		s.compensate(ctx, bk.ID, pay.ID)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if !resp.Accepted() {
		s.compensate(ctx, bk.ID, pay.ID)
		return nil, &GatewayRejection{Code: resp.ResponseCode, Description: resp.ResponseDescription}
	}

	pay.CheckoutRequestID = resp.CheckoutRequestID
	if err := s.withIO(ctx, func(c context.Context) error {
		return s.Payments.SetCheckoutRequestID(c, pay.ID, resp.CheckoutRequestID)
	}); err != nil {
		// The push is already out; the watcher reconciles by transaction ref.
		s.Logger.Error("failed to record checkout request id",
			zap.String("payment", pay.ID), zap.String("checkout", resp.CheckoutRequestID), zap.Error(err))
	}

	s.startWatcher(bk, pay)

	s.Logger.Info("booking submitted",
		zap.String("booking", bk.ID),
		zap.String("customer", customerID),
		zap.String("provider", bk.ProviderID),
		zap.Time("at", bk.BookingDate),
		zap.String("transaction_ref", pay.TransactionRef))

	return &Submission{
		Booking:           bk,
		Payment:           pay,
		CheckoutRequestID: resp.CheckoutRequestID,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}

func validateSubmission(customerID string, in models.BookingRequestInput) error {
	switch {
	case customerID == "":
		return &ValidationError{Field: "customer_id"}
	case strings.TrimSpace(in.ProviderID) == "":
		return &ValidationError{Field: "provider_id"}
	case strings.TrimSpace(in.ServiceID) == "":
		return &ValidationError{Field: "service_id"}
	case strings.TrimSpace(in.Date) == "":
		return &ValidationError{Field: "date"}
	case strings.TrimSpace(in.Slot) == "":
		return &ValidationError{Field: "slot"}
	case strings.TrimSpace(in.Phone) == "":
		return &ValidationError{Field: "phone"}
	}
	return nil
}

func (s *DefaultBookingService) withIO(ctx context.Context, fn func(context.Context) error) error {
	cctx, cancel := s.io(ctx)
	defer cancel()
	return fn(cctx)
}

// compensate removes the payment record (if any) then the booking. It survives
// cancellation of the request that triggered it.
func (s *DefaultBookingService) compensate(ctx context.Context, bookingID, paymentID string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if paymentID != "" {
		if err := s.Payments.Delete(cctx, paymentID); err != nil {
			s.Logger.Error("compensation: failed to delete payment", zap.String("payment", paymentID), zap.Error(err))
		}
	}
	if err := s.Bookings.Delete(cctx, bookingID); err != nil {
		s.Logger.Error("compensation: failed to delete booking", zap.String("booking", bookingID), zap.Error(err))
		return
	}
	s.Logger.Info("rolled back booking submission", zap.String("booking", bookingID))
}
