package booking

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrSlotUnavailable    = errors.New("selected slot is no longer available")
	ErrStoreRead          = errors.New("store read failed")
	ErrStoreWrite         = errors.New("store write failed")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrStaleSelection     = errors.New("superseded by a newer date selection")
)

// ValidationError names the missing or malformed input. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// GatewayRejection is returned when the payment gateway refuses the push.
type GatewayRejection struct {
	Code        string
	Description string
}

func (e *GatewayRejection) Error() string {
	return fmt.Sprintf("payment rejected by gateway (code %s): %s", e.Code, e.Description)
}
