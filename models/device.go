package models

import "time"

// Device is a push-notification target registered by a user's app.
type Device struct {
	UserID    string    `bson:"user_id" json:"userId"`
	DeviceID  string    `bson:"device_id" json:"deviceId"`
	FCMToken  string    `bson:"fcm_token" json:"fcmToken"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
