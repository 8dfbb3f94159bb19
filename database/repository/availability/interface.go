// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"

	"sokoni/database"
	"sokoni/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type AvailabilityRepository interface {
	// GetRule returns the provider's rule for weekday, or nil when none is set.
	GetRule(ctx context.Context, providerID, weekday string) (*models.AvailabilityRule, error)
	ListRules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error)
	UpsertRule(ctx context.Context, rule models.AvailabilityRule) (*models.AvailabilityRule, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &mongoAvailabilityRepo{
		coll: database.DB().Collection("availability_rules"),
	}
}
