package domain

import "time"

// PaymentStatus enumerates bill payment states.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Bill is an order placed by a customer and delivered by a shipper.
type Bill struct {
	ID              string
	CustomerID      string
	ShipperID       *string
	Items           []BillItem
	Total           float64
	ShippingAddress string
	Phone           string
	Note            string
	PaymentStatus   PaymentStatus
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BillItem is one product line of a bill. UnitPrice is captured at order time.
type BillItem struct {
	ID        string
	BillID    string
	ProductID string
	Quantity  int
	UnitPrice float64
}

// Subtotal returns quantity times unit price.
func (i BillItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
