package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"github.com/lmnop/uniswap-v2-periphery/internal/metrics"
)

// Handlers groups the handlers mounted by Register.
type Handlers struct {
	Estimate  *EstimateHandler
	Amounts   *AmountsHandler
	Liquidity *LiquidityHandler
	Simulate  *SimulateHandler
}

// Register mounts the API routes on app. A nil m disables request metrics
// and the /metrics endpoint.
func Register(app *fiber.App, h Handlers, m *metrics.Metrics) {
	if m != nil {
		app.Use(Metrics(m))
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	app.Get("/estimate", h.Estimate.Handle())

	v1 := app.Group("/v1")
	v1.Get("/amounts-out", h.Amounts.HandleOut())
	v1.Get("/amounts-in", h.Amounts.HandleIn())
	v1.Get("/liquidity/add", h.Liquidity.HandleAdd())
	v1.Get("/liquidity/remove", h.Liquidity.HandleRemove())
	v1.Post("/simulate/swap", h.Simulate.Handle())
}
