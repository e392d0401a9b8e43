package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/uav-store/backend/internal/api/dto"
	"github.com/uav-store/backend/internal/service"
)

// ReviewsHandler exposes product reviews. Routes may be mounted under a
// product, in which case :productId scopes them.
type ReviewsHandler struct {
	reviews *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviews *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviews}
}

// List godoc
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Param productId path string false "Product ID when nested under a product"
// @Success 200 {array} dto.ReviewResponse
// @Router /api/v1/reviews [get]
// @Router /api/v1/products/{productId}/reviews [get]
func (h *ReviewsHandler) List(c *fiber.Ctx) error {
	reviews, err := h.reviews.List(c.UserContext(), c.Params("productId"), parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReviewList(reviews), "results": len(reviews)})
}

// Get godoc
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} dto.ReviewResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/reviews/{id} [get]
func (h *ReviewsHandler) Get(c *fiber.Ctx) error {
	review, err := h.reviews.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReviewResponse(review)})
}

// Create godoc
// @Summary Review a product
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ReviewRequest true "Review payload"
// @Success 201 {object} dto.ReviewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/reviews [post]
// @Router /api/v1/products/{productId}/reviews [post]
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if productID := c.Params("productId"); productID != "" {
		req.ProductID = productID
	}
	review, err := h.reviews.Create(c.UserContext(), account, service.ReviewInput{
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReviewResponse(review)})
}

// Update godoc
// @Summary Update a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body dto.ReviewRequest true "Fields to change"
// @Success 200 {object} dto.ReviewResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/reviews/{id} [patch]
func (h *ReviewsHandler) Update(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.Update(c.UserContext(), account, c.Params("id"), service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReviewResponse(review)})
}

// Delete godoc
// @Summary Delete a review
// @Tags reviews
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/reviews/{id} [delete]
func (h *ReviewsHandler) Delete(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	if err := h.reviews.Delete(c.UserContext(), account, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
