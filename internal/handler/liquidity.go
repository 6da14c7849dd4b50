package handler

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"

	"github.com/lmnop/uniswap-v2-periphery/internal/service"
)

// LiquidityHandler quotes deposits into and withdrawals from a pair.
type LiquidityHandler struct {
	BaseHandler
	service *service.QuoteService
}

func NewLiquidityHandler(logger *slog.Logger, svc *service.QuoteService) *LiquidityHandler {
	return &LiquidityHandler{BaseHandler: BaseHandler{logger: logger}, service: svc}
}

type AddLiquidityRequest struct {
	TokenA         string `query:"tokenA"`
	TokenB         string `query:"tokenB"`
	AmountADesired string `query:"amountADesired"`
	AmountBDesired string `query:"amountBDesired"`
	AmountAMin     string `query:"amountAMin"`
	AmountBMin     string `query:"amountBMin"`
}

type RemoveLiquidityRequest struct {
	TokenA     string `query:"tokenA"`
	TokenB     string `query:"tokenB"`
	Liquidity  string `query:"liquidity"`
	AmountAMin string `query:"amountAMin"`
	AmountBMin string `query:"amountBMin"`
}

type LiquidityResponse struct {
	Pair      string `json:"pair"`
	AmountA   string `json:"amountA"`
	AmountB   string `json:"amountB"`
	Liquidity string `json:"liquidity"`
}

func (h *LiquidityHandler) HandleAdd() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req AddLiquidityRequest
		if err := c.Bind().Query(&req); err != nil {
			h.logger.Debug("failed to bind query parameters", "err", err)
			return ErrInvalidQueryParameters
		}
		tokenA, tokenB, err := h.parsePair(req.TokenA, req.TokenB)
		if err != nil {
			return err
		}
		desiredA, err := h.parseAmount(req.AmountADesired)
		if err != nil {
			return err
		}
		desiredB, err := h.parseAmount(req.AmountBDesired)
		if err != nil {
			return err
		}
		minA, err := h.parseBound("amountAMin", req.AmountAMin)
		if err != nil {
			return err
		}
		minB, err := h.parseBound("amountBMin", req.AmountBMin)
		if err != nil {
			return err
		}

		q, err := h.service.AddLiquidity(c.Context(), tokenA, tokenB, desiredA, desiredB, minA, minB)
		if err != nil {
			return mapError(h.logger, err)
		}
		return c.JSON(liquidityResponse(q))
	}
}

func (h *LiquidityHandler) HandleRemove() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req RemoveLiquidityRequest
		if err := c.Bind().Query(&req); err != nil {
			h.logger.Debug("failed to bind query parameters", "err", err)
			return ErrInvalidQueryParameters
		}
		tokenA, tokenB, err := h.parsePair(req.TokenA, req.TokenB)
		if err != nil {
			return err
		}
		liquidity, err := h.parseAmount(req.Liquidity)
		if err != nil {
			return err
		}
		minA, err := h.parseBound("amountAMin", req.AmountAMin)
		if err != nil {
			return err
		}
		minB, err := h.parseBound("amountBMin", req.AmountBMin)
		if err != nil {
			return err
		}

		q, err := h.service.RemoveLiquidity(c.Context(), tokenA, tokenB, liquidity, minA, minB)
		if err != nil {
			return mapError(h.logger, err)
		}
		return c.JSON(liquidityResponse(q))
	}
}

func (h *LiquidityHandler) parsePair(a, b string) (tokenA, tokenB common.Address, err error) {
	if tokenA, err = h.parseAddress("tokenA", a); err != nil {
		return
	}
	if tokenB, err = h.parseAddress("tokenB", b); err != nil {
		return
	}
	if tokenA == tokenB {
		err = ErrSameAddresses
	}
	return
}

func liquidityResponse(q service.LiquidityQuote) LiquidityResponse {
	return LiquidityResponse{
		Pair:      q.Pair.Hex(),
		AmountA:   q.AmountA.String(),
		AmountB:   q.AmountB.String(),
		Liquidity: q.Liquidity.String(),
	}
}
