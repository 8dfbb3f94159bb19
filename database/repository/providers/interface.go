// File: database/repository/providers/interface.go
package providerRepo

import (
	"context"
	"errors"
	"fmt"

	"sokoni/database"
	"sokoni/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrAlreadyRegistered = errors.New("user already registered as a provider")

type ProviderRepository interface {
	Create(ctx context.Context, provider *models.Provider) error
	GetByUserID(ctx context.Context, userID string) (*models.Provider, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo constructs a new MongoDB ProviderRepository.
func NewMongoProviderRepo() ProviderRepository {
	return &mongoProviderRepo{coll: database.DB().Collection("providers")}
}

func (r *mongoProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("error creating provider: %w", err)
	}
	return nil
}

func (r *mongoProviderRepo) GetByUserID(ctx context.Context, userID string) (*models.Provider, error) {
	var p models.Provider
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching provider for user %s: %w", userID, err)
	}
	return &p, nil
}

func (r *mongoProviderRepo) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_user"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create provider indexes: %w", err)
	}
	return nil
}
