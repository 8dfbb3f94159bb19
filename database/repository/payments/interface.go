// File: database/repository/payments/interface.go
package paymentRepo

import (
	"context"
	"errors"

	"sokoni/database"
	"sokoni/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("payment not found")
	// ErrAlreadySettled means the payment had already reached a terminal status.
	ErrAlreadySettled = errors.New("payment already settled")
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id string) error
	GetByTransactionRef(ctx context.Context, ref string) (*models.Payment, error)
	GetByCheckoutRequestID(ctx context.Context, checkoutID string) (*models.Payment, error)
	SetCheckoutRequestID(ctx context.Context, id, checkoutID string) error
	// Settle moves a pending payment to a terminal status.
	Settle(ctx context.Context, id string, status models.PaymentStatus, description string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo constructs a new MongoDB PaymentRepository.
func NewMongoPaymentRepo() PaymentRepository {
	return &mongoPaymentRepo{
		coll: database.DB().Collection("payments"),
	}
}
