package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/uav-store/backend/internal/api/dto"
	"github.com/uav-store/backend/internal/service"
)

// BillsHandler exposes ordering and delivery endpoints.
type BillsHandler struct {
	bills *service.BillService
}

// NewBillsHandler constructs handler.
func NewBillsHandler(bills *service.BillService) *BillsHandler {
	return &BillsHandler{bills: bills}
}

// Create godoc
// @Summary Place an order
// @Description Unit prices and the total are computed from the catalogue.
// @Tags bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBillRequest true "Order"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/bill [post]
func (h *BillsHandler) Create(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.CreateBillRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.BillCreateInput{
		ShippingAddress: req.ShippingAddress,
		Phone:           req.Phone,
		Note:            req.Note,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.BillItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	bill, err := h.bills.Create(c.UserContext(), account, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBillResponse(bill)})
}

// List godoc
// @Summary List all bills
// @Tags bills
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} dto.BillResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/bill [get]
func (h *BillsHandler) List(c *fiber.Ctx) error {
	bills, err := h.bills.List(c.UserContext(), parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBillList(bills), "results": len(bills)})
}

// MyShippingBills godoc
// @Summary Bills assigned to the calling shipper
// @Tags bills
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.BillResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/bill/myShippingBills [get]
func (h *BillsHandler) MyShippingBills(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	bills, err := h.bills.ListForShipper(c.UserContext(), account, parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBillList(bills), "results": len(bills)})
}

// SetPaymentStatus godoc
// @Summary Change a bill's payment status
// @Tags bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bill ID"
// @Param request body dto.SetPaymentStatusRequest true "New status"
// @Success 200 {object} dto.BillResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/bill/setPaymentStatus/{id} [patch]
func (h *BillsHandler) SetPaymentStatus(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.SetPaymentStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	bill, err := h.bills.SetPaymentStatus(c.UserContext(), account, c.Params("id"), req.PaymentStatus)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBillResponse(bill)})
}

// UpdatePay godoc
// @Summary Mark a delivered bill as paid
// @Tags bills
// @Produce json
// @Security BearerAuth
// @Param billId path string true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/bill/update-pay/{billId} [post]
func (h *BillsHandler) UpdatePay(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	bill, err := h.bills.MarkPaid(c.UserContext(), account, c.Params("billId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBillResponse(bill)})
}
