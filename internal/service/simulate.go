package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lmnop/uniswap-v2-periphery/internal/access"
	"github.com/lmnop/uniswap-v2-periphery/internal/eth"
	"github.com/lmnop/uniswap-v2-periphery/internal/ledger"
	"github.com/lmnop/uniswap-v2-periphery/internal/metrics"
	"github.com/lmnop/uniswap-v2-periphery/internal/router"
	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

type SwapKind string

const (
	ExactIn  SwapKind = "exact_in"
	ExactOut SwapKind = "exact_out"
)

// SwapSimulation describes a router swap to dry-run. Amount is the exact
// side of the trade; Limit is the minimum output for ExactIn and the
// maximum input for ExactOut.
type SwapSimulation struct {
	Kind      SwapKind
	Path      []common.Address
	Amount    *big.Int
	Limit     *big.Int
	From      common.Address
	To        common.Address
	NativeIn  bool
	NativeOut bool
	// Deadline defaults to the simulated block time.
	Deadline uint64
}

// SimulationResult holds the realised amounts and the state of every
// touched pair after the swap.
type SimulationResult struct {
	Block   uint64
	Amounts []*big.Int
	Pairs   []eth.PairState
}

// SimulationService forks the pairs of a path from chain into an in-memory
// ledger and runs the router against it, so that deadline, whitelist,
// bounds and atomicity are all exercised exactly as on a real call.
type SimulationService struct {
	BaseService
	pairs     *eth.PairReader
	cfg       router.Config
	whitelist *access.Whitelist
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewSimulationService(logger *slog.Logger, pairs *eth.PairReader, cfg router.Config, whitelist *access.Whitelist, m *metrics.Metrics) *SimulationService {
	if cfg.Fee == (uniswapv2.Fee{}) {
		cfg.Fee = uniswapv2.DefaultFee
	}
	return &SimulationService{
		BaseService: BaseService{logger: logger},
		pairs:       pairs,
		cfg:         cfg,
		whitelist:   whitelist,
		metrics:     m,
		now:         time.Now,
	}
}

// Simulate executes req on a fork of the latest block. The caller is
// credited exactly the input budget of the trade beforehand.
func (s *SimulationService) Simulate(ctx context.Context, req SwapSimulation) (*SimulationResult, error) {
	if req.Kind != ExactIn && req.Kind != ExactOut {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSwap, req.Kind)
	}
	if req.Kind == ExactOut && req.NativeIn && req.NativeOut {
		return nil, fmt.Errorf("%w: exact output native round trip", ErrUnsupportedSwap)
	}

	reader, err := s.pairs.Latest(ctx)
	if err != nil {
		return nil, err
	}
	l := ledger.New(ledger.Config{
		Factory:      s.cfg.Factory,
		InitCodeHash: s.cfg.InitCodeHash,
		WETH:         s.cfg.WETH,
		Fee:          s.cfg.Fee,
		Time:         uint64(s.now().Unix()),
	})
	pairs, err := s.fork(ctx, reader, l, req.Path)
	if err != nil {
		return nil, err
	}

	budget := req.Amount
	if req.Kind == ExactOut {
		budget = req.Limit
	}
	if err := s.fund(l, req, budget); err != nil {
		return nil, err
	}

	r, err := router.New(s.logger, s.cfg, l, s.whitelist, s.metrics)
	if err != nil {
		return nil, err
	}
	deadline := req.Deadline
	if deadline == 0 {
		deadline = l.Time()
	}
	amounts, err := s.dispatch(ctx, r, req, budget, deadline)
	if err != nil {
		return nil, err
	}

	res := &SimulationResult{Block: reader.Block().Uint64(), Amounts: amounts}
	for _, st := range pairs {
		st.Reserve0, st.Reserve1, err = l.GetReserves(ctx, st.Pair)
		if err != nil {
			return nil, err
		}
		st.TotalSupply = l.TotalSupply(st.Pair)
		res.Pairs = append(res.Pairs, st)
	}
	s.logger.Debug("swap simulated", "kind", req.Kind, "block", res.Block, "amounts", amounts)
	return res, nil
}

// fork seeds l with every distinct pair along path. Paths too short to
// name a pair are left for the router to reject.
func (s *SimulationService) fork(ctx context.Context, reader *eth.PairReader, l *ledger.Ledger, path []common.Address) ([]eth.PairState, error) {
	var out []eth.PairState
	seen := make(map[common.Address]bool)
	for i := 0; i+1 < len(path); i++ {
		pair, err := uniswapv2.PairFor(s.cfg.Factory, s.cfg.InitCodeHash, path[i], path[i+1])
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		if seen[pair] {
			continue
		}
		seen[pair] = true

		st, err := reader.State(ctx, pair)
		if err != nil {
			return nil, err
		}
		if !st.Deployed() {
			return nil, fmt.Errorf("%w: hop %d (%s)", ErrPairNotDeployed, i, pair.Hex())
		}
		token0, token1, _ := uniswapv2.SortTokens(path[i], path[i+1])
		if st.Token0 != token0 || st.Token1 != token1 {
			return nil, fmt.Errorf("%w: hop %d (%s)", ErrPairMismatch, i, pair.Hex())
		}
		if _, err := l.SeedPair(st.Token0, st.Token1, st.Reserve0, st.Reserve1, st.TotalSupply); err != nil {
			return nil, fmt.Errorf("seed %s: %w", pair.Hex(), err)
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *SimulationService) fund(l *ledger.Ledger, req SwapSimulation, budget *big.Int) error {
	if budget == nil || budget.Sign() <= 0 || len(req.Path) == 0 {
		return nil
	}
	if req.NativeIn {
		return l.FundNative(req.From, budget)
	}
	if err := l.MintTo(req.Path[0], req.From, budget); err != nil {
		return fmt.Errorf("fund caller: %w", err)
	}
	return l.Approve(req.Path[0], req.From, s.cfg.Address, budget)
}

func (s *SimulationService) dispatch(ctx context.Context, r *router.Router, req SwapSimulation, budget *big.Int, deadline uint64) ([]*big.Int, error) {
	call := router.Call{From: req.From}
	if req.NativeIn {
		call.Value = budget
	}
	switch {
	case req.Kind == ExactIn && req.NativeIn && req.NativeOut:
		return r.SwapETHForETH(ctx, call, req.Limit, req.Path, req.To, deadline)
	case req.Kind == ExactIn && req.NativeIn:
		return r.SwapExactETHForTokens(ctx, call, req.Limit, req.Path, req.To, deadline)
	case req.Kind == ExactIn && req.NativeOut:
		return r.SwapExactTokensForETH(ctx, call, req.Amount, req.Limit, req.Path, req.To, deadline)
	case req.Kind == ExactIn:
		return r.SwapExactTokensForTokens(ctx, call, req.Amount, req.Limit, req.Path, req.To, deadline)
	case req.NativeIn:
		return r.SwapETHForExactTokens(ctx, call, req.Amount, req.Path, req.To, deadline)
	case req.NativeOut:
		return r.SwapTokensForExactETH(ctx, call, req.Amount, req.Limit, req.Path, req.To, deadline)
	default:
		return r.SwapTokensForExactTokens(ctx, call, req.Amount, req.Limit, req.Path, req.To, deadline)
	}
}
