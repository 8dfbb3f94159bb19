package models

import "time"

// AvailabilityRule is a provider's declared working-hours window for one weekday.
// At most one rule exists per (provider, weekday); writes are upserts.
type AvailabilityRule struct {
	ID          string    `bson:"id" json:"id"`
	ProviderID  string    `bson:"provider_id" json:"provider_id"`
	Weekday     string    `bson:"weekday" json:"weekday" binding:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime   string    `bson:"start_time" json:"start_time" binding:"required"` // "HH:MM" or "HH:MM:SS"
	EndTime     string    `bson:"end_time" json:"end_time" binding:"required"`
	IsAvailable bool      `bson:"is_available" json:"is_available"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// SetAvailabilityRequest is the dashboard payload for a provider's weekly hours.
type SetAvailabilityRequest struct {
	Rules []AvailabilityRule `json:"rules" binding:"required,min=1,max=7,dive"`
}
