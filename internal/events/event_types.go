package events

import (
	"time"

	"github.com/uav-store/backend/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBillCreated              EventType = "bill_created"
	EventBillPaymentStatusChanged EventType = "bill_payment_status_changed"
)

// Actor identifies the account that triggered an event.
type Actor struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	BillID    string    `json:"bill_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// BillCreatedPayload payload.
type BillCreatedPayload struct {
	CustomerID string  `json:"customer_id"`
	ShipperID  *string `json:"shipper_id,omitempty"`
	Total      float64 `json:"total"`
	ItemCount  int     `json:"item_count"`
}

// BillPaymentStatusChangedPayload payload.
type BillPaymentStatusChangedPayload struct {
	OldStatus domain.PaymentStatus `json:"old_status"`
	NewStatus domain.PaymentStatus `json:"new_status"`
}
