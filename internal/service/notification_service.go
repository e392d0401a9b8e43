package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/uav-store/backend/internal/config"
	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/events"
)

// NotificationService tells customers, shippers and an optional webhook about
// bill activity. Email delivery is logged only; no mail transport is wired.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
	client *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.WebhookTimeout()},
	}
}

// Notify delivers event over every configured channel.
func (n *NotificationService) Notify(ctx context.Context, event events.Event) error {
	switch payload := event.Payload.(type) {
	case events.BillCreatedPayload:
		n.logger.Info("bill created",
			zap.String("bill_id", event.BillID),
			zap.String("customer_id", payload.CustomerID),
			zap.Float64("total", payload.Total),
			zap.Int("items", payload.ItemCount))
		n.email(event, payload.CustomerID, "Your UAV store order was received")
		if payload.ShipperID == nil {
			n.logger.Warn("bill awaiting shipper", zap.String("bill_id", event.BillID))
		} else {
			n.email(event, *payload.ShipperID, "A new bill was assigned to you")
		}
	case events.BillPaymentStatusChangedPayload:
		n.logger.Info("bill payment status changed",
			zap.String("bill_id", event.BillID),
			zap.String("from", string(payload.OldStatus)),
			zap.String("to", string(payload.NewStatus)),
			zap.String("actor_id", event.Actor.AccountID))
		if payload.NewStatus == domain.PaymentStatusPaid {
			n.email(event, "", "Payment received")
		}
	default:
		return fmt.Errorf("notify: unsupported payload %T for %s", event.Payload, event.Type)
	}
	return n.webhook(ctx, event)
}

func (n *NotificationService) email(event events.Event, recipientID, subject string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email queued",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("recipient_id", recipientID),
		zap.String("subject", subject),
		zap.String("bill_id", event.BillID))
}

// webhook POSTs the event as JSON. Any non-2xx answer is an error.
func (n *NotificationService) webhook(ctx context.Context, event events.Event) error {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode webhook body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", string(event.Type))
	req.Header.Set("X-Event-ID", event.ID)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("deliver webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}
