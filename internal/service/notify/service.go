// Package notify delivers operator notifications such as the monthly yield report.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	client "github.com/moradafish/dashboard/pkg/clients/whatsapp"
)

// Notifier sends a message to its configured recipient.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// WhatsAppNotifier is the production implementation backed by the WhatsApp Cloud API.
type WhatsAppNotifier struct {
	client    client.Client
	recipient string
	logger    *zap.Logger
}

// NewWhatsAppNotifier wires a notifier that delivers to recipient.
func NewWhatsAppNotifier(c client.Client, recipient string, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppNotifier{
		client:    c,
		recipient: recipient,
		logger:    logger.Named("svc.notify"),
	}
}

// Notify sends message to the configured recipient.
func (n *WhatsAppNotifier) Notify(ctx context.Context, message string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	ids, err := n.client.SendText(ctxWithTimeout, n.recipient, message)
	if err != nil {
		return fmt.Errorf("notify %s: %w", n.recipient, err)
	}
	n.logger.Info("notification sent", zap.String("to", n.recipient), zap.Strings("message_ids", ids))
	return nil
}

// LogNotifier only logs messages; used when no delivery channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that writes messages to logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("svc.notify")}
}

// Notify logs message.
func (n *LogNotifier) Notify(_ context.Context, message string) error {
	n.logger.Info("notification not delivered: no channel configured", zap.String("message", message))
	return nil
}
