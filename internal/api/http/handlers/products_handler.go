package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/uav-store/backend/internal/api/dto"
	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/service"
)

// ProductsHandler exposes the product catalogue.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(products *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: products}
}

// List godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param slugName query string false "Slug prefix, case-insensitive"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} dto.ProductResponse
// @Router /api/v1/products [get]
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext(), c.Query("slugName"), parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductList(products), "results": len(products)})
}

// Filter godoc
// @Summary Filter products by category
// @Tags products
// @Produce json
// @Param category query string false "Comma separated categories"
// @Success 200 {array} dto.ProductResponse
// @Router /api/v1/products/filter [get]
func (h *ProductsHandler) Filter(c *fiber.Ctx) error {
	products, err := h.products.FilterByCategory(c.UserContext(), c.Query("category"), parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductList(products), "results": len(products)})
}

// Top3 godoc
// @Summary Newest prominent products
// @Tags products
// @Produce json
// @Success 200 {array} dto.ProductResponse
// @Router /api/v1/products/top3Products [get]
func (h *ProductsHandler) Top3(c *fiber.Ctx) error {
	products, err := h.products.Featured(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductList(products)})
}

// Get godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/products/{id} [get]
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Create godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProductRequest true "Product payload"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/products [post]
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	var product domain.Product
	req.ApplyTo(&product)
	if err := h.products.Create(c.UserContext(), &product); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProductResponse(&product)})
}

// Update godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body dto.ProductRequest true "Fields to change"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/products/{id} [patch]
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.products.Update(c.UserContext(), c.Params("id"), req.ApplyTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Delete godoc
// @Summary Delete a product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/products/{id} [delete]
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	if err := h.products.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
