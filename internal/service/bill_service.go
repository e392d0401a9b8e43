package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/events"
	"github.com/uav-store/backend/internal/repository"
	apperrors "github.com/uav-store/backend/pkg/util"
)

// maxItemQuantity caps a single product line, duplicates merged.
const maxItemQuantity = 10000

// BillItemInput is one requested product line.
type BillItemInput struct {
	ProductID string
	Quantity  int
}

// BillCreateInput describes a new order.
type BillCreateInput struct {
	Items           []BillItemInput
	ShippingAddress string
	Phone           string
	Note            string
}

// BillService coordinates ordering and payment state.
type BillService struct {
	bills      repository.BillRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// BillDependencies bundles collaborators for the bill service.
type BillDependencies struct {
	BillRepo    repository.BillRepository
	ProductRepo repository.ProductRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewBillService constructs the service.
func NewBillService(deps BillDependencies) *BillService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillService{
		bills:      deps.BillRepo,
		products:   deps.ProductRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Create places an order for customer. Unit prices come from the catalogue
// and the least busy shipper is assigned when one exists.
func (s *BillService) Create(ctx context.Context, customer *domain.Account, input BillCreateInput) (*domain.Bill, error) {
	quantities, order, err := validateBillInput(input)
	if err != nil {
		return nil, err
	}

	prices, err := s.products.GetPrices(ctx, order)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, id := range order {
		if _, ok := prices[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewNotFound("product", map[string]any{"ids": missing})
	}

	bill := &domain.Bill{
		CustomerID:      customer.ID,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		Phone:           strings.TrimSpace(input.Phone),
		Note:            strings.TrimSpace(input.Note),
		PaymentStatus:   domain.PaymentStatusPending,
	}
	for _, id := range order {
		item := domain.BillItem{ProductID: id, Quantity: quantities[id], UnitPrice: prices[id]}
		bill.Items = append(bill.Items, item)
		bill.Total += item.Subtotal()
	}
	bill.Total = math.Round(bill.Total*100) / 100

	shipperID, err := s.bills.PickShipper(ctx)
	switch {
	case err == nil:
		bill.ShipperID = &shipperID
	case apperrors.IsNoRows(err):
		s.logger.Warn("no shipper available, bill left unassigned")
	default:
		return nil, err
	}

	if err := s.bills.Create(ctx, bill); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventBillCreated,
		BillID: bill.ID,
		Actor:  actorOf(customer),
		Payload: events.BillCreatedPayload{
			CustomerID: bill.CustomerID,
			ShipperID:  bill.ShipperID,
			Total:      bill.Total,
			ItemCount:  len(bill.Items),
		},
	})
	return bill, nil
}

func validateBillInput(input BillCreateInput) (map[string]int, []string, error) {
	problems := map[string]any{}
	if len(input.Items) == 0 {
		problems["items"] = "A bill needs at least one item"
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		problems["shipping_address"] = "Shipping address is required"
	}
	if strings.TrimSpace(input.Phone) == "" {
		problems["phone"] = "Phone number is required"
	}

	quantities := make(map[string]int, len(input.Items))
	var order []string
	for _, item := range input.Items {
		id := strings.TrimSpace(item.ProductID)
		if id == "" || item.Quantity <= 0 {
			problems["items"] = "Every item needs a product_id and a positive quantity"
			continue
		}
		if _, seen := quantities[id]; !seen {
			order = append(order, id)
		}
		if item.Quantity > maxItemQuantity || quantities[id]+item.Quantity > maxItemQuantity {
			problems["items"] = fmt.Sprintf("A product may be ordered at most %d times per bill", maxItemQuantity)
			continue
		}
		quantities[id] += item.Quantity
	}
	if len(problems) > 0 {
		return nil, nil, apperrors.NewValidationError("invalid bill payload", problems)
	}
	return quantities, order, nil
}

// List returns all bills page by page.
func (s *BillService) List(ctx context.Context, page repository.Page) ([]domain.Bill, error) {
	return s.bills.List(ctx, repository.BillFilter{Page: page})
}

// ListForShipper returns the bills assigned to shipper.
func (s *BillService) ListForShipper(ctx context.Context, shipper *domain.Account, page repository.Page) ([]domain.Bill, error) {
	return s.bills.List(ctx, repository.BillFilter{ShipperID: &shipper.ID, Page: page})
}

// Get returns a single bill.
func (s *BillService) Get(ctx context.Context, id string) (*domain.Bill, error) {
	bill, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("bill", id, err)
	}
	return bill, nil
}

// SetPaymentStatus moves a bill to status. Shippers may only touch bills
// assigned to them; admins may touch any.
func (s *BillService) SetPaymentStatus(ctx context.Context, actor *domain.Account, id string, status domain.PaymentStatus) (*domain.Bill, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid payment status", map[string]any{
			"payment_status": "must be one of pending, paid, failed, refunded",
		})
	}
	bill, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.HasRole(domain.RoleAdmin) && !assignedTo(bill, actor) {
		return nil, apperrors.NewForbidden("this bill is not assigned to you")
	}
	return s.transition(ctx, actor, bill, status)
}

// MarkPaid records payment collected by the assigned shipper.
func (s *BillService) MarkPaid(ctx context.Context, shipper *domain.Account, id string) (*domain.Bill, error) {
	bill, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !assignedTo(bill, shipper) {
		return nil, apperrors.NewForbidden("this bill is not assigned to you")
	}
	if bill.PaymentStatus == domain.PaymentStatusPaid {
		return nil, apperrors.NewConflict("bill is already paid", map[string]any{"id": id})
	}
	return s.transition(ctx, shipper, bill, domain.PaymentStatusPaid)
}

func (s *BillService) transition(ctx context.Context, actor *domain.Account, bill *domain.Bill, status domain.PaymentStatus) (*domain.Bill, error) {
	old := bill.PaymentStatus
	// paid_at survives a refund and is cleared by any other move away from paid.
	var paidAt *time.Time
	switch {
	case status == domain.PaymentStatusPaid && old == domain.PaymentStatusPaid && bill.PaidAt != nil:
		paidAt = bill.PaidAt
	case status == domain.PaymentStatusPaid:
		now := s.now()
		paidAt = &now
	case status == domain.PaymentStatusRefunded:
		paidAt = bill.PaidAt
	}
	if err := s.bills.UpdatePaymentStatus(ctx, bill.ID, status, paidAt); err != nil {
		return nil, notFound("bill", bill.ID, err)
	}
	bill.PaymentStatus = status
	bill.PaidAt = paidAt

	if old != status {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventBillPaymentStatusChanged,
			BillID:  bill.ID,
			Actor:   actorOf(actor),
			Payload: events.BillPaymentStatusChangedPayload{OldStatus: old, NewStatus: status},
		})
	}
	return bill, nil
}

func assignedTo(bill *domain.Bill, account *domain.Account) bool {
	return bill.ShipperID != nil && *bill.ShipperID == account.ID
}

func (s *BillService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorOf(account *domain.Account) events.Actor {
	return events.Actor{AccountID: account.ID, Role: account.Role}
}
