package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp arma el servidor de desarrollo completo: estado sembrado más todas
// las rutas del protocolo de la librería.
func NewApp() (*fiber.App, *Store) {
	app := fiber.New(fiber.Config{
		AppName: "libreria-mock",
	})
	app.Use(recover.New())

	store := NewStore()
	Router(app, store)
	return app, store
}

// Router registra las rutas del protocolo sobre el estado dado.
func Router(app *fiber.App, store *Store) {
	lists := NewListHandler(store)
	docs := NewDocumentsHandler(store)
	csvs := NewCSVHandler(store)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Catálogo y entidades de consulta
	app.Get("/books/", lists.Books)
	app.Get("/books", lists.Books)
	app.Get("/genres", lists.Genres)
	app.Get("/auth/users", lists.Users)

	// Proveedores y precio de recompra
	app.Get("/vendors", lists.Vendors)
	app.Get("/vendors/bestbuybackprice", lists.BestBuybackPrice)

	// Órdenes de compra
	po := app.Group("/purchase_orders")
	po.Get("/", docs.ListPurchaseOrders)
	po.Post("/", docs.AddPurchaseOrder)
	po.Post("/csv/import", csvs.ImportPurchases)
	po.Get("/:id", docs.GetPurchaseOrder)
	po.Patch("/:id", docs.ModifyPurchaseOrder)
	po.Delete("/:id", docs.DeletePurchaseOrder)

	// Conciliaciones de venta
	sr := app.Group("/sales/sales_reconciliation")
	sr.Get("/", docs.ListSalesReconciliations)
	sr.Post("/", docs.AddSalesReconciliation)
	sr.Post("/csv/import", csvs.ImportSales)
	sr.Get("/:id", docs.GetSalesReconciliation)
	sr.Patch("/:id", docs.ModifySalesReconciliation)
	sr.Delete("/:id", docs.DeleteSalesReconciliation)

	// Recompras
	bb := app.Group("/buybacks")
	bb.Get("/", docs.ListBuybacks)
	bb.Post("/", docs.AddBuyback)
	bb.Post("/csv/import", csvs.ImportBuybacks)
	bb.Get("/:id", docs.GetBuyback)
	bb.Patch("/:id", docs.ModifyBuyback)
	bb.Delete("/:id", docs.DeleteBuyback)
}
