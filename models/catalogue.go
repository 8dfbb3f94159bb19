package models

import "time"

// Service is a bookable offering in a provider's gallery.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	ProviderID      string    `bson:"provider_id" json:"provider_id"`
	Name            string    `bson:"name" json:"name"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	Category        string    `bson:"category,omitempty" json:"category,omitempty"`
	Price           float64   `bson:"price" json:"price"`
	DurationMinutes *int      `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	ImageURL        string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

// Product is a craft item sold by a seller.
type Product struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	Name       string    `bson:"name" json:"name"`
	Price      float64   `bson:"price" json:"price"`
	Stock      int       `bson:"stock" json:"stock"`
	ImageURL   string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
