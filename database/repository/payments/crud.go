// File: database/repository/payments/crud.go
package paymentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sokoni/models"
)

func (r *mongoPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if _, err := r.coll.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("error creating payment: %w", err)
	}
	return nil
}

func (r *mongoPaymentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting payment %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoPaymentRepo) GetByTransactionRef(ctx context.Context, ref string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"transaction_ref": ref})
}

func (r *mongoPaymentRepo) GetByCheckoutRequestID(ctx context.Context, checkoutID string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"checkout_request_id": checkoutID})
}

func (r *mongoPaymentRepo) findOne(ctx context.Context, filter bson.M) (*models.Payment, error) {
	var payment models.Payment
	if err := r.coll.FindOne(ctx, filter).Decode(&payment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching payment: %w", err)
	}
	return &payment, nil
}

func (r *mongoPaymentRepo) SetCheckoutRequestID(ctx context.Context, id, checkoutID string) error {
	update := bson.M{"$set": bson.M{"checkout_request_id": checkoutID, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("error updating payment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoPaymentRepo) Settle(ctx context.Context, id string, status models.PaymentStatus, description string) error {
	if !models.PaymentPending.CanTransitionTo(status) {
		return fmt.Errorf("cannot settle payment %s as %q", id, status)
	}
	filter := bson.M{"id": id, "status": models.PaymentPending}
	update := bson.M{"$set": bson.M{
		"status":             status,
		"result_description": description,
		"updated_at":         time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error settling payment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrAlreadySettled
	}
	return nil
}

func (r *mongoPaymentRepo) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transaction_ref", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("transaction_ref_unique"),
		},
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetName("booking_idx"),
		},
		{
			Keys:    bson.D{{Key: "checkout_request_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("checkout_request_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create payment indexes: %w", err)
	}
	return nil
}
