package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/lmnop/uniswap-v2-periphery/internal/metrics"
)

// Metrics counts every request by matched route and final status code.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		m.ObserveRequest(c.Route().Path, status)
		return err
	}
}
