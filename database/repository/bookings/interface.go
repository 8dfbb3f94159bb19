// File: database/repository/bookings/interface.go
package bookingRepo

import (
	"context"
	"errors"
	"time"

	"sokoni/database"
	"sokoni/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("booking not found")
	// ErrStatusChanged means the booking was no longer in the expected status.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	Delete(ctx context.Context, id string) error
	// ListForDay returns bookings of a provider's service whose booking_date falls in [from, to).
	ListForDay(ctx context.Context, providerID, serviceID string, from, to time.Time) ([]models.Booking, error)
	// UpdateStatus moves a booking from expected to next; ErrStatusChanged if it was not in expected.
	UpdateStatus(ctx context.Context, id string, expected, next models.BookingStatus) error
	// SetPaymentStatus records a payment outcome, optionally cascading the booking status.
	SetPaymentStatus(ctx context.Context, id string, payment models.PaymentStatus, status *models.BookingStatus) error
	EnsureIndexes(ctx context.Context) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{
		coll: database.DB().Collection("bookings"),
	}
}
