package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/uav-store/backend/docs" // Swagger docs
	"github.com/uav-store/backend/internal/api/http/handlers"
	"github.com/uav-store/backend/internal/auth"
	"github.com/uav-store/backend/internal/config"
	"github.com/uav-store/backend/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Customers *handlers.CustomersHandler
	Products  *handlers.ProductsHandler
	Reviews   *handlers.ReviewsHandler
	Bills     *handlers.BillsHandler
	Gate      *auth.Gate
	RateLimit config.RateLimitConfig
}

// ServerConfig builds the fiber settings for the API. Forwarded client
// addresses are only trusted when they come from a configured proxy.
func ServerConfig(cfg config.AppConfig) fiber.Config {
	fc := fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    cfg.BodyLimitBytes,
		ReadTimeout:  cfg.RequestTimeout(),
		WriteTimeout: cfg.RequestTimeout(),
	}
	if len(cfg.TrustedProxies) > 0 {
		fc.ProxyHeader = fiber.HeaderXForwardedFor
		fc.EnableTrustedProxyCheck = true
		fc.TrustedProxies = cfg.TrustedProxies
	}
	return fc
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Get("/api-docs/*", adaptor.HTTPHandler(httpSwagger.Handler(httpSwagger.URL("/api-docs/doc.json"))))

	protect := cfg.Gate.Protect
	adminOnly := auth.RestrictTo(domain.RoleAdmin)
	limiter := AuthRateLimit(cfg.RateLimit)

	v1 := app.Group("/api/v1")

	customers := v1.Group("/customer")
	customers.Get("/me", cfg.Gate.IsLoggedIn, cfg.Customers.Me)
	customers.Post("/signup", limiter, auth.PreventPrivilegeEscalation(), cfg.Customers.Signup)
	customers.Post("/login", limiter, cfg.Customers.Login)
	customers.Get("/logout", cfg.Customers.Logout)
	customers.Patch("/updateMyPassword", protect, cfg.Customers.UpdateMyPassword)
	customers.Put("/setRoles", protect, adminOnly, cfg.Customers.SetRoles)
	customers.Post("/", auth.PreventPrivilegeEscalation(), cfg.Customers.Create)
	customers.Get("/", protect, adminOnly, cfg.Customers.List)
	customers.Get("/:id", protect, adminOnly, cfg.Customers.Get)
	customers.Patch("/:id", protect, adminOnly, cfg.Customers.Update)
	customers.Delete("/:id", protect, adminOnly, cfg.Customers.Delete)

	products := v1.Group("/products")
	products.Get("/", cfg.Products.List)
	products.Get("/filter", cfg.Products.Filter)
	products.Get("/top3Products", cfg.Products.Top3)
	products.Get("/:productId/reviews", cfg.Reviews.List)
	products.Post("/:productId/reviews", protect, auth.RestrictTo(domain.RoleUser), cfg.Reviews.Create)
	products.Post("/", protect, adminOnly, cfg.Products.Create)
	products.Get("/:id", protect, adminOnly, cfg.Products.Get)
	products.Patch("/:id", protect, adminOnly, cfg.Products.Update)
	products.Delete("/:id", protect, adminOnly, cfg.Products.Delete)

	reviews := v1.Group("/reviews")
	reviews.Get("/", cfg.Reviews.List)
	reviews.Get("/:id", cfg.Reviews.Get)
	reviews.Post("/", protect, auth.RestrictTo(domain.RoleUser), cfg.Reviews.Create)
	reviews.Patch("/:id", protect, cfg.Reviews.Update)
	reviews.Delete("/:id", protect, cfg.Reviews.Delete)

	bills := v1.Group("/bill", protect)
	bills.Post("/", cfg.Bills.Create)
	bills.Get("/", adminOnly, cfg.Bills.List)
	bills.Get("/myShippingBills", auth.RestrictTo(domain.RoleShipper, domain.RoleAdmin), cfg.Bills.MyShippingBills)
	bills.Patch("/setPaymentStatus/:id", auth.RestrictTo(domain.RoleShipper, domain.RoleAdmin), cfg.Bills.SetPaymentStatus)
	bills.Post("/update-pay/:billId", auth.RestrictTo(domain.RoleShipper), cfg.Bills.UpdatePay)
}
