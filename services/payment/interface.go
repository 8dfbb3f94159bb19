package payment

import (
	"context"

	"sokoni/models"
)

// Gateway initiates mobile-money push payments.
type Gateway interface {
	// InitiatePush prompts the customer's phone. A nil error with a non-"0"
	// ResponseCode means the gateway rejected the request.
	InitiatePush(ctx context.Context, req models.PaymentRequest) (*models.PushResponse, error)
}
