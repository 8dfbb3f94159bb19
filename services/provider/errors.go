package provider

import "errors"

var (
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrAlreadyRegistered   = errors.New("already registered as a provider")
	ErrNotRegistered       = errors.New("not registered as a provider")
)
