package handler

import (
	"errors"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"

	"github.com/lmnop/uniswap-v2-periphery/internal/service"
)

type EstimateHandler struct {
	BaseHandler
	service *service.QuoteService
}

func NewEstimateHandler(logger *slog.Logger, svc *service.QuoteService) *EstimateHandler {
	return &EstimateHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
	}
}

type EstimateRequest struct {
	Pool     string `query:"pool" json:"pool"`
	Src      string `query:"src" json:"src"`
	Dst      string `query:"dst" json:"dst"`
	AmountIn string `query:"src_amount" json:"amount_in"`
}

func (h *EstimateHandler) Handle() fiber.Handler {
	return func(c fiber.Ctx) error {
		req, err := h.parseAndValidateRequest(c)
		if err != nil {
			return err
		}

		pool := common.HexToAddress(req.Pool)
		src := common.HexToAddress(req.Src)
		dst := common.HexToAddress(req.Dst)

		amountIn, err := h.parseAmount(req.AmountIn)
		if err != nil {
			return NewInvalidAmountIn(err)
		}

		amountOut, err := h.service.Estimate(c.Context(), pool, src, dst, amountIn)
		if err != nil {
			return h.handleServiceError(err)
		}

		h.logger.Debug("estimate computed", "pool", req.Pool, "src", req.Src, "dst", req.Dst, "in", amountIn.String(), "out", amountOut.String())
		return c.SendString(amountOut.String())
	}
}

func (h *EstimateHandler) parseAndValidateRequest(c fiber.Ctx) (*EstimateRequest, error) {
	var req EstimateRequest

	if err := c.Bind().Query(&req); err != nil {
		h.logger.Debug("failed to bind query parameters", "err", err)
		return nil, ErrInvalidQueryParameters
	}

	for _, f := range []struct{ field, value string }{{"pool", req.Pool}, {"src", req.Src}, {"dst", req.Dst}} {
		if _, err := h.parseAddress(f.field, f.value); err != nil {
			return nil, err
		}
	}
	if req.Src == req.Dst {
		return nil, ErrSameAddresses
	}

	return &req, nil
}

func (h *EstimateHandler) handleServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrSameToken):
		return ErrSameTokenBadRequest
	case errors.Is(err, service.ErrEmptyReserves):
		return ErrEmptyReservesBadRequest
	default:
		return mapError(h.logger, err)
	}
}
