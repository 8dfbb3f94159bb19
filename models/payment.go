package models

import "time"

// Payment records one mobile-money push attempt for a booking.
type Payment struct {
	ID                string        `bson:"id" json:"id"`
	BookingID         string        `bson:"booking_id" json:"booking_id"`
	TransactionRef    string        `bson:"transaction_ref" json:"transaction_ref"`
	Phone             string        `bson:"phone" json:"phone"`
	Amount            float64       `bson:"amount" json:"amount"`
	Status            PaymentStatus `bson:"status" json:"status"`
	CheckoutRequestID string        `bson:"checkout_request_id,omitempty" json:"checkout_request_id,omitempty"`
	ResultDescription string        `bson:"result_description,omitempty" json:"result_description,omitempty"`
	CreatedAt         time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at" json:"updated_at"`
}

// PaymentRequest is what the gateway needs to prompt the customer's phone.
type PaymentRequest struct {
	Phone       string
	Amount      float64
	Reference   string
	Description string
}

// PushResponse mirrors the gateway's STK push acknowledgement.
type PushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// Accepted reports whether the gateway accepted the push ("0").
func (r PushResponse) Accepted() bool {
	return r.ResponseCode == "0"
}

// PaymentEvent is one asynchronous status change delivered on the realtime channel.
type PaymentEvent struct {
	TransactionRef string        `json:"transaction_ref"`
	PaymentID      string        `json:"payment_id"`
	BookingID      string        `json:"booking_id"`
	Status         PaymentStatus `json:"status"`
	Description    string        `json:"description,omitempty"`
	At             time.Time     `json:"at"`
}

// PaymentCallback is the body the STK push proxy forwards from the gateway.
type PaymentCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
		} `json:"stkCallback"`
	} `json:"Body"`
}
