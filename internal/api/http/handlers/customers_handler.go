package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/uav-store/backend/internal/api/dto"
	"github.com/uav-store/backend/internal/auth"
	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/service"
)

// CustomersHandler exposes account and session endpoints.
type CustomersHandler struct {
	auth      *service.AuthService
	customers *service.CustomerService
	gate      *auth.Gate
	cookies   auth.CookieSettings
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(authService *service.AuthService, customers *service.CustomerService, gate *auth.Gate, cookies auth.CookieSettings) *CustomersHandler {
	return &CustomersHandler{auth: authService, customers: customers, gate: gate, cookies: cookies}
}

// sendToken sets the session cookie and writes the account plus token.
func (h *CustomersHandler) sendToken(c *fiber.Ctx, status int, account *domain.Account, token domain.Token) error {
	c.Cookie(h.cookies.SessionCookie(c, token.Value))
	return c.Status(status).JSON(fiber.Map{
		"data": fiber.Map{
			"customer": dto.NewCustomerResponse(account),
			"auth":     dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt},
		},
	})
}

// Signup godoc
// @Summary Register a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/customer/signup [post]
func (h *CustomersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, token, err := h.auth.Signup(c.UserContext(), service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}
	return h.sendToken(c, http.StatusCreated, account, token)
}

// Login godoc
// @Summary Log in with email and password
// @Tags customers
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/v1/customer/login [post]
func (h *CustomersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, http.StatusOK, account, token)
}

// Logout godoc
// @Summary Log out
// @Description Replaces the session cookie with an expired marker. Bearer tokens stay valid unless server-side revocation is enabled.
// @Tags customers
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/customer/logout [get]
func (h *CustomersHandler) Logout(c *fiber.Ctx) error {
	if err := h.gate.RevokeCurrent(c); err != nil {
		return err
	}
	c.Cookie(h.cookies.ExpiredSessionCookie(c))
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true, "revoked": h.gate.Revocable()}})
}

// Me godoc
// @Summary Current customer
// @Description Returns the customer behind the session cookie, or null when anonymous.
// @Tags customers
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/customer/me [get]
func (h *CustomersHandler) Me(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return c.JSON(fiber.Map{"data": fiber.Map{"customer": nil}})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"customer": dto.NewCustomerResponse(account)}})
}

// UpdateMyPassword godoc
// @Summary Change the caller's password
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePasswordRequest true "Passwords"
// @Success 200 {object} map[string]any
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/customer/updateMyPassword [patch]
func (h *CustomersHandler) UpdateMyPassword(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	token, err := h.auth.ChangePassword(c.UserContext(), account, req.PasswordCurrent, req.Password, req.PasswordConfirm)
	if err != nil {
		return err
	}
	return h.sendToken(c, http.StatusOK, account, token)
}

// SetRoles godoc
// @Summary Assign a role
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SetRoleRequest true "Role assignment"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/customer/setRoles [put]
func (h *CustomersHandler) SetRoles(c *fiber.Ctx) error {
	var req dto.SetRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, err := h.auth.SetRole(c.UserContext(), req.CustomerID, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(account)})
}

// Create godoc
// @Summary Create a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Customer payload"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/customer [post]
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, err := h.customers.Create(c.UserContext(), service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCustomerResponse(account)})
}

// List godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} dto.CustomerResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/customer [get]
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	accounts, err := h.customers.List(c.UserContext(), parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerList(accounts), "results": len(accounts)})
}

// Get godoc
// @Summary Get a customer
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/customer/{id} [get]
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	account, err := h.customers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(account)})
}

// Update godoc
// @Summary Update a customer's profile
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param request body dto.UpdateCustomerRequest true "Profile fields"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/customer/{id} [patch]
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateCustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, err := h.customers.Update(c.UserContext(), c.Params("id"), service.CustomerUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(account)})
}

// Delete godoc
// @Summary Delete a customer
// @Tags customers
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/customer/{id} [delete]
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	if err := h.customers.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
