package dto

import (
	"time"

	"github.com/uav-store/backend/internal/domain"
)

// BillItemRequest is one requested product line.
type BillItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateBillRequest payload.
type CreateBillRequest struct {
	Items           []BillItemRequest `json:"items"`
	ShippingAddress string            `json:"shipping_address"`
	Phone           string            `json:"phone"`
	Note            string            `json:"note"`
}

// SetPaymentStatusRequest payload.
type SetPaymentStatusRequest struct {
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

// BillItemResponse represents a bill line.
type BillItemResponse struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// BillResponse is the public view of a bill.
type BillResponse struct {
	ID              string               `json:"id"`
	CustomerID      string               `json:"customer_id"`
	ShipperID       *string              `json:"shipper_id"`
	Items           []BillItemResponse   `json:"items"`
	Total           float64              `json:"total"`
	ShippingAddress string               `json:"shipping_address"`
	Phone           string               `json:"phone"`
	Note            string               `json:"note,omitempty"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
	PaidAt          *time.Time           `json:"paid_at"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// NewBillResponse maps a bill with its lines.
func NewBillResponse(b *domain.Bill) BillResponse {
	items := make([]BillItemResponse, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, BillItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	return BillResponse{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		ShipperID:       b.ShipperID,
		Items:           items,
		Total:           b.Total,
		ShippingAddress: b.ShippingAddress,
		Phone:           b.Phone,
		Note:            b.Note,
		PaymentStatus:   b.PaymentStatus,
		PaidAt:          b.PaidAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// NewBillList maps a slice of bills.
func NewBillList(bills []domain.Bill) []BillResponse {
	out := make([]BillResponse, 0, len(bills))
	for i := range bills {
		out = append(out, NewBillResponse(&bills[i]))
	}
	return out
}
