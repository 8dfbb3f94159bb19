// File: database/repository/bookings/crud.go
package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"sokoni/models"
)

func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting booking %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepo) UpdateStatus(ctx context.Context, id string, expected, next models.BookingStatus) error {
	filter := bson.M{"id": id, "status": expected}
	update := bson.M{"$set": bson.M{"status": next, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrStatusChanged
	}
	return nil
}

// SetPaymentStatus only touches bookings whose payment is still pending, so a
// replayed notification cannot flip a terminal outcome.
func (r *mongoBookingRepo) SetPaymentStatus(ctx context.Context, id string, payment models.PaymentStatus, status *models.BookingStatus) error {
	set := bson.M{"payment_status": payment, "updated_at": time.Now()}
	filter := bson.M{"id": id, "payment_status": models.PaymentPending}
	if status != nil {
		set["status"] = *status
		filter["status"] = models.BookingPending
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error recording payment for booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrStatusChanged
	}
	return nil
}
