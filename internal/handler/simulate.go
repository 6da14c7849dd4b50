package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/lmnop/uniswap-v2-periphery/internal/service"
)

// SimulateHandler dry-runs router swaps against a fork of the latest block.
type SimulateHandler struct {
	BaseHandler
	service *service.SimulationService
}

func NewSimulateHandler(logger *slog.Logger, svc *service.SimulationService) *SimulateHandler {
	return &SimulateHandler{BaseHandler: BaseHandler{logger: logger}, service: svc}
}

type SimulateRequest struct {
	Kind      string   `json:"kind"`
	Path      []string `json:"path"`
	Amount    string   `json:"amount"`
	Limit     string   `json:"limit"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	NativeIn  bool     `json:"nativeIn"`
	NativeOut bool     `json:"nativeOut"`
	Deadline  uint64   `json:"deadline"`
}

type PairStateResponse struct {
	Pair        string `json:"pair"`
	Token0      string `json:"token0"`
	Token1      string `json:"token1"`
	Reserve0    string `json:"reserve0"`
	Reserve1    string `json:"reserve1"`
	TotalSupply string `json:"totalSupply"`
}

type SimulateResponse struct {
	Block   uint64              `json:"block"`
	Amounts []string            `json:"amounts"`
	Pairs   []PairStateResponse `json:"pairs"`
}

func (h *SimulateHandler) Handle() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req SimulateRequest
		if err := c.Bind().JSON(&req); err != nil {
			h.logger.Debug("failed to bind request body", "err", err)
			return ErrInvalidBody
		}
		sim, err := h.parse(req)
		if err != nil {
			return err
		}

		res, err := h.service.Simulate(c.Context(), sim)
		if err != nil {
			return mapError(h.logger, err)
		}

		resp := SimulateResponse{Block: res.Block, Amounts: amountStrings(res.Amounts)}
		for _, p := range res.Pairs {
			resp.Pairs = append(resp.Pairs, PairStateResponse{
				Pair:        p.Pair.Hex(),
				Token0:      p.Token0.Hex(),
				Token1:      p.Token1.Hex(),
				Reserve0:    p.Reserve0.String(),
				Reserve1:    p.Reserve1.String(),
				TotalSupply: p.TotalSupply.String(),
			})
		}
		return c.JSON(resp)
	}
}

func (h *SimulateHandler) parse(req SimulateRequest) (service.SwapSimulation, error) {
	sim := service.SwapSimulation{
		Kind:      service.SwapKind(req.Kind),
		NativeIn:  req.NativeIn,
		NativeOut: req.NativeOut,
		Deadline:  req.Deadline,
	}
	if sim.Kind == "" {
		sim.Kind = service.ExactIn
	}
	if len(req.Path) == 0 {
		return sim, NewAddressRequired("path")
	}
	for _, p := range req.Path {
		addr, err := h.parseAddress("path", p)
		if err != nil {
			return sim, err
		}
		sim.Path = append(sim.Path, addr)
	}

	var err error
	if sim.From, err = h.parseAddress("from", req.From); err != nil {
		return sim, err
	}
	sim.To = sim.From
	if req.To != "" {
		if sim.To, err = h.parseAddress("to", req.To); err != nil {
			return sim, err
		}
	}
	if sim.Amount, err = h.parseAmount(req.Amount); err != nil {
		return sim, err
	}
	if sim.Limit, err = h.parseBound("limit", req.Limit); err != nil {
		return sim, err
	}
	// An exact-output trade without a ceiling would have no input budget.
	if sim.Kind == service.ExactOut && sim.Limit.Sign() == 0 {
		return sim, NewInvalidAmount("limit")
	}
	return sim, nil
}
