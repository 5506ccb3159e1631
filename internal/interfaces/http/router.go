package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/retiros-api/internal/application/inventory"
	"github.com/jhoicas/retiros-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CartUC      *usecase.CartUseCase
	StockUC     *usecase.StockUseCase
	CatalogueUC *usecase.CatalogueUseCase
	AccountUC   *usecase.AccountUseCase
	Withdraw    *inventory.WithdrawUseCase
	Receipt     *inventory.ReceiptUseCase
	Log         zerolog.Logger
}

// NewApp construye la app fiber con middlewares, /health y las rutas de la API.
// Swagger se monta aparte en cmd/api porque depende del archivo docs/swagger.json.
func NewApp(name string, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Output: deps.Log,
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app fiber.Router, deps RouterDeps) {
	api := app.Group("/api")

	cart := api.Group("/cart")
	cartHandler := NewCartHandler(deps.CartUC, deps.Log)
	cart.Get("/get", cartHandler.Get)
	cart.Post("/add", cartHandler.Upsert)
	cart.Delete("/clear", cartHandler.Clear)

	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.CatalogueUC, deps.Log)
	inv := api.Group("/inventory")
	inv.Get("/withdrawableProducts", inventoryHandler.ListWithdrawableProducts)
	inv.Get("/grouped/:productCode", inventoryHandler.ListBatches)
	api.Get("/catalogues/price-by-product/:date/:productCode", inventoryHandler.PriceByProduct)

	accountHandler := NewAccountHandler(deps.AccountUC, deps.Log)
	api.Get("/distributors", accountHandler.ListDistributors)
	api.Get("/accounts/:distributorCode", accountHandler.Balance)

	withdraws := api.Group("/withdraws")
	withdrawHandler := NewWithdrawHandler(deps.Withdraw, deps.Receipt, deps.Log)
	withdraws.Post("/", withdrawHandler.Create)
	withdraws.Get("/:id", withdrawHandler.GetByID)
	withdraws.Get("/:id/pdf", withdrawHandler.PDF)
}
