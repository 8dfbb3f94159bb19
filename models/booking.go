package models

import "time"

// Booking is a customer's appointment with a provider for one service.
type Booking struct {
	ID            string        `bson:"id" json:"id"`
	CustomerID    string        `bson:"customer_id" json:"customer_id"`
	ProviderID    string        `bson:"provider_id" json:"provider_id"`
	ServiceID     string        `bson:"service_id" json:"service_id"`
	BookingDate   time.Time     `bson:"booking_date" json:"booking_date"` // calendar date merged with the chosen slot
	Status        BookingStatus `bson:"status" json:"status"`
	PaymentStatus PaymentStatus `bson:"payment_status" json:"payment_status"`
	TotalAmount   float64       `bson:"total_amount" json:"total_amount"`
	Notes         string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

// BookingRequestInput is the customer-facing submission payload.
type BookingRequestInput struct {
	ProviderID string `json:"provider_id" binding:"required"`
	ServiceID  string `json:"service_id" binding:"required"`
	Date       string `json:"date" binding:"required"` // "2006-01-02"
	Slot       string `json:"slot" binding:"required"` // "HH:MM", one of the offered slots
	Phone      string `json:"phone" binding:"required"`
	Notes      string `json:"notes,omitempty"`
}

// BookingResponse is returned after a successful submission.
type BookingResponse struct {
	Booking           Booking `json:"booking"`
	TransactionRef    string  `json:"transaction_ref"`
	CheckoutRequestID string  `json:"checkout_request_id,omitempty"`
	Message           string  `json:"message"`
}
