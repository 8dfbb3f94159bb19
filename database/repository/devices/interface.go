// File: database/repository/devices/interface.go
package deviceRepo

import (
	"context"
	"fmt"
	"time"

	"sokoni/database"
	"sokoni/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DeviceRepository interface {
	// TokensForUser returns every FCM token registered for the user.
	TokensForUser(ctx context.Context, userID string) ([]string, error)
	Register(ctx context.Context, device models.Device) error
}

type mongoDeviceRepo struct {
	coll *mongo.Collection
}

// NewMongoDeviceRepo constructs a new MongoDB DeviceRepository.
func NewMongoDeviceRepo() DeviceRepository {
	return &mongoDeviceRepo{coll: database.DB().Collection("devices")}
}

func (r *mongoDeviceRepo) TokensForUser(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("error finding devices for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var devices []models.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("error decoding devices: %w", err)
	}
	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		if d.FCMToken != "" {
			tokens = append(tokens, d.FCMToken)
		}
	}
	return tokens, nil
}

func (r *mongoDeviceRepo) Register(ctx context.Context, device models.Device) error {
	filter := bson.M{"user_id": device.UserID, "device_id": device.DeviceID}
	update := bson.M{"$set": bson.M{"fcm_token": device.FCMToken, "updated_at": time.Now()}}
	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("error registering device: %w", err)
	}
	return nil
}
