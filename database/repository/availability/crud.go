// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sokoni/models"
)

func (r *mongoAvailabilityRepo) GetRule(ctx context.Context, providerID, weekday string) (*models.AvailabilityRule, error) {
	filter := bson.M{"provider_id": providerID, "weekday": strings.ToLower(weekday)}
	var rule models.AvailabilityRule
	if err := r.coll.FindOne(ctx, filter).Decode(&rule); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching availability for %s/%s: %w", providerID, weekday, err)
	}
	return &rule, nil
}

func (r *mongoAvailabilityRepo) ListRules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"provider_id": providerID})
	if err != nil {
		return nil, fmt.Errorf("error listing availability: %w", err)
	}
	defer cursor.Close(ctx)

	rules := []models.AvailabilityRule{}
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("error decoding availability: %w", err)
	}
	return rules, nil
}

// UpsertRule writes the single rule for (provider, weekday), keeping its id stable.
func (r *mongoAvailabilityRepo) UpsertRule(ctx context.Context, rule models.AvailabilityRule) (*models.AvailabilityRule, error) {
	rule.Weekday = strings.ToLower(rule.Weekday)
	filter := bson.M{"provider_id": rule.ProviderID, "weekday": rule.Weekday}
	update := bson.M{
		"$set": bson.M{
			"start_time":   rule.StartTime,
			"end_time":     rule.EndTime,
			"is_available": rule.IsAvailable,
			"updated_at":   time.Now(),
		},
		"$setOnInsert": bson.M{"id": uuid.New().String()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.AvailabilityRule
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, fmt.Errorf("error upserting availability for %s/%s: %w", rule.ProviderID, rule.Weekday, err)
	}
	return &saved, nil
}

// EnsureIndexes enforces at most one rule per provider and weekday.
func (r *mongoAvailabilityRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "weekday", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("provider_weekday_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}
