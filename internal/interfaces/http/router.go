package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/myshop-api/internal/application/auth"
	"github.com/jhoicas/myshop-api/internal/application/cart"
	"github.com/jhoicas/myshop-api/internal/application/ports"
	"github.com/jhoicas/myshop-api/internal/application/productgroup"
	"github.com/jhoicas/myshop-api/internal/application/usecase"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC     *usecase.CategoryUseCase
	ProductUC      *usecase.ProductUseCase
	ProductGroupUC *productgroup.UseCase
	UserUC         *usecase.UserUseCase
	AuthUC         *auth.UseCase
	CartUC         *cart.UseCase
	UoW            ports.UnitOfWork
	Tokens         TokenParser
	Log            *logger.Logger
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(MetricsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// tx va después de authn/admin: una petición rechazada no llega a abrir transacción.
	api := app.Group("/api")
	tx := TransactionMiddleware(deps.UoW, deps.Log)
	authn := AuthMiddleware(deps.Tokens)
	admin := RequireRole(entity.RoleAdmin)

	// Account (login público; logout requiere token)
	accountHandler := NewAccountHandler(deps.AuthUC, deps.Log)
	account := api.Group("/account")
	account.Post("/login", tx, accountHandler.Login)
	account.Post("/verify-sms-code", tx, accountHandler.VerifySMSCode)
	account.Post("/logout", authn, tx, accountHandler.Logout)

	// Users (protegido; siempre el usuario del token)
	userHandler := NewUserHandler(deps.UserUC, deps.Log)
	users := api.Group("/users", authn, tx)
	users.Get("/me", userHandler.Me)
	users.Put("/me", userHandler.Update)
	users.Delete("/me", userHandler.Delete)

	// Categories (lectura pública, escritura admin)
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Log)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", authn, admin, tx, categoryHandler.Create)
	categories.Put("/:id", authn, admin, tx, categoryHandler.Update)
	categories.Delete("/:id", authn, admin, tx, categoryHandler.Delete)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authn, admin, tx, productHandler.Create)
	products.Put("/:id", authn, admin, tx, productHandler.Update)
	products.Delete("/:id", authn, admin, tx, productHandler.Delete)

	// Product groups y su membresía
	groupHandler := NewProductGroupHandler(deps.ProductGroupUC, deps.Log)
	groups := api.Group("/product-groups")
	groups.Get("/", groupHandler.List)
	groups.Get("/:id", groupHandler.GetByID)
	groups.Post("/", authn, admin, tx, groupHandler.Create)
	groups.Put("/:id", authn, admin, tx, groupHandler.Update)
	groups.Delete("/:id", authn, admin, tx, groupHandler.Delete)
	groups.Post("/:id/products/:productId", authn, admin, tx, groupHandler.AddProduct)
	groups.Delete("/:id/products/:productId", authn, admin, tx, groupHandler.RemoveProduct)

	// Cart (público)
	cartHandler := NewCartHandler(deps.CartUC, deps.Log)
	api.Post("/cart/calculate", tx, cartHandler.Calculate)
}
