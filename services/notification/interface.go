package notification

import (
	"context"
	"fmt"

	deviceRepo "sokoni/database/repository/devices"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Notifier delivers push notifications to a user's devices.
type Notifier interface {
	Notify(ctx context.Context, userID, title, body string, data map[string]string) error
}

// FCMNotifier sends through Firebase Cloud Messaging to every registered device.
type FCMNotifier struct {
	client  *messaging.Client
	devices deviceRepo.DeviceRepository
	logger  *zap.Logger
}

func NewFCMNotifier(client *messaging.Client, devices deviceRepo.DeviceRepository, logger *zap.Logger) (*FCMNotifier, error) {
	if client == nil || devices == nil {
		return nil, fmt.Errorf("notification service initialization error: messaging client or device repo is nil")
	}
	return &FCMNotifier{client: client, devices: devices, logger: logger}, nil
}

func (n *FCMNotifier) Notify(ctx context.Context, userID, title, body string, data map[string]string) error {
	tokens, err := n.devices.TokensForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("Notify: could not load devices for %s: %w", userID, err)
	}
	if len(tokens) == 0 {
		n.logger.Debug("no devices registered; skipping push", zap.String("user", userID))
		return nil
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	resp, err := n.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return fmt.Errorf("Notify: failed to send FCM message: %w", err)
	}
	if resp.FailureCount > 0 {
		n.logger.Warn("some pushes failed", zap.String("user", userID), zap.Int("failed", resp.FailureCount))
	}
	return nil
}

// LogNotifier records notifications in the log when FCM is not configured.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(_ context.Context, userID, title, body string, data map[string]string) error {
	n.Logger.Info("notification",
		zap.String("user", userID),
		zap.String("title", title),
		zap.String("body", body),
		zap.Any("data", data),
	)
	return nil
}
