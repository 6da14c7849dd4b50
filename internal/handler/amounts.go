package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/lmnop/uniswap-v2-periphery/internal/service"
)

// AmountsHandler serves per-hop amounts for a path, in both directions.
type AmountsHandler struct {
	BaseHandler
	service *service.QuoteService
}

func NewAmountsHandler(logger *slog.Logger, svc *service.QuoteService) *AmountsHandler {
	return &AmountsHandler{BaseHandler: BaseHandler{logger: logger}, service: svc}
}

type AmountsRequest struct {
	Amount string `query:"amount"`
	Path   string `query:"path"`
}

type AmountsResponse struct {
	Path    []string `json:"path"`
	Amounts []string `json:"amounts"`
}

// HandleOut treats amount as the exact input.
func (h *AmountsHandler) HandleOut() fiber.Handler {
	return h.handle(true)
}

// HandleIn treats amount as the exact output.
func (h *AmountsHandler) HandleIn() fiber.Handler {
	return h.handle(false)
}

func (h *AmountsHandler) handle(exactIn bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		var req AmountsRequest
		if err := c.Bind().Query(&req); err != nil {
			h.logger.Debug("failed to bind query parameters", "err", err)
			return ErrInvalidQueryParameters
		}
		amount, err := h.parseAmount(req.Amount)
		if err != nil {
			return err
		}
		path, err := h.parsePath(req.Path)
		if err != nil {
			return err
		}

		calc := h.service.AmountsIn
		if exactIn {
			calc = h.service.AmountsOut
		}
		amounts, err := calc(c.Context(), amount, path)
		if err != nil {
			return mapError(h.logger, err)
		}

		resp := AmountsResponse{Amounts: amountStrings(amounts)}
		for _, p := range path {
			resp.Path = append(resp.Path, p.Hex())
		}
		return c.JSON(resp)
	}
}
