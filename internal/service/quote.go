package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lmnop/uniswap-v2-periphery/internal/eth"
	"github.com/lmnop/uniswap-v2-periphery/internal/ledger"
	"github.com/lmnop/uniswap-v2-periphery/internal/router"
	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

// QuoteService prices swaps and liquidity changes against on-chain pair
// storage. Every call pins the head block first so that all hops of a path
// are read from the same state.
type QuoteService struct {
	BaseService
	pairs *eth.PairReader
	cfg   router.Config
}

// NewQuoteService constructs a QuoteService for the deployment described by
// cfg.
func NewQuoteService(logger *slog.Logger, pairs *eth.PairReader, cfg router.Config) *QuoteService {
	if cfg.Fee == (uniswapv2.Fee{}) {
		cfg.Fee = uniswapv2.DefaultFee
	}
	return &QuoteService{
		BaseService: BaseService{logger: logger},
		pairs:       pairs,
		cfg:         cfg,
	}
}

// LiquidityQuote is the outcome of a liquidity operation priced against
// current reserves.
type LiquidityQuote struct {
	Pair      common.Address
	AmountA   *big.Int
	AmountB   *big.Int
	Liquidity *big.Int
}

// Estimate computes the expected output amount for swapping amountIn of src to
// dst in the provided pool at the latest block. It validates the token pair,
// reads reserves from storage and applies the constant-product formula.
func (s *QuoteService) Estimate(ctx context.Context, pool, src, dst common.Address, amountIn *big.Int) (*big.Int, error) {
	s.logger.Debug("estimating swap", "pool", pool.Hex(), "src", src.Hex(), "dst", dst.Hex(), "in", amountIn.String())

	if src == dst {
		return nil, ErrSameToken
	}
	reader, err := s.pairs.Latest(ctx)
	if err != nil {
		return nil, err
	}
	st, err := reader.State(ctx, pool)
	if err != nil {
		return nil, err
	}

	var reserveIn, reserveOut *big.Int
	switch {
	case src == st.Token0 && dst == st.Token1:
		reserveIn, reserveOut = st.Reserve0, st.Reserve1
	case src == st.Token1 && dst == st.Token0:
		reserveIn, reserveOut = st.Reserve1, st.Reserve0
	default:
		return nil, ErrPairMismatch
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, ErrEmptyReserves
	}

	out, err := uniswapv2.AmountOut(amountIn, reserveIn, reserveOut, s.cfg.Fee)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("amount out computed", "out", out.String())
	return out, nil
}

// AmountsOut returns the per-hop amounts of an exact-input swap along path.
func (s *QuoteService) AmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	resolver, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	return resolver.AmountsOut(ctx, amountIn, path, s.cfg.Fee)
}

// AmountsIn returns the per-hop amounts of an exact-output swap along path.
func (s *QuoteService) AmountsIn(ctx context.Context, amountOut *big.Int, path []common.Address) ([]*big.Int, error) {
	resolver, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	return resolver.AmountsIn(ctx, amountOut, path, s.cfg.Fee)
}

// AddLiquidity sizes a deposit into the (tokenA, tokenB) pair and estimates
// the liquidity it would mint. A pair that does not exist yet is priced as
// a first deposit.
func (s *QuoteService) AddLiquidity(ctx context.Context, tokenA, tokenB common.Address, desiredA, desiredB, minA, minB *big.Int) (LiquidityQuote, error) {
	st, reserveA, reserveB, err := s.pairState(ctx, tokenA, tokenB)
	if err != nil {
		return LiquidityQuote{}, err
	}
	amountA, amountB, err := uniswapv2.AddLiquidityQuote(desiredA, desiredB, minA, minB, reserveA, reserveB)
	if err != nil {
		return LiquidityQuote{}, err
	}
	return LiquidityQuote{
		Pair:      st.Pair,
		AmountA:   amountA,
		AmountB:   amountB,
		Liquidity: mintedLiquidity(amountA, amountB, reserveA, reserveB, st.TotalSupply),
	}, nil
}

// RemoveLiquidity prices burning liquidity of the (tokenA, tokenB) pair.
func (s *QuoteService) RemoveLiquidity(ctx context.Context, tokenA, tokenB common.Address, liquidity, minA, minB *big.Int) (LiquidityQuote, error) {
	st, reserveA, reserveB, err := s.pairState(ctx, tokenA, tokenB)
	if err != nil {
		return LiquidityQuote{}, err
	}
	if !st.Deployed() {
		return LiquidityQuote{}, fmt.Errorf("%w: %s", ErrPairNotDeployed, st.Pair.Hex())
	}
	amountA, amountB, err := uniswapv2.RemoveLiquidityQuote(liquidity, st.TotalSupply, reserveA, reserveB, minA, minB)
	if err != nil {
		return LiquidityQuote{}, err
	}
	return LiquidityQuote{Pair: st.Pair, AmountA: amountA, AmountB: amountB, Liquidity: new(big.Int).Set(liquidity)}, nil
}

func (s *QuoteService) resolver(ctx context.Context) (*uniswapv2.Resolver, error) {
	reader, err := s.pairs.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return uniswapv2.NewResolver(s.cfg.Factory, s.cfg.InitCodeHash, reader, s.cfg.MaxPathLength), nil
}

// pairState reads the (tokenA, tokenB) pair and orients its reserves.
func (s *QuoteService) pairState(ctx context.Context, tokenA, tokenB common.Address) (eth.PairState, *big.Int, *big.Int, error) {
	token0, _, err := uniswapv2.SortTokens(tokenA, tokenB)
	if err != nil {
		return eth.PairState{}, nil, nil, err
	}
	pair, err := uniswapv2.PairFor(s.cfg.Factory, s.cfg.InitCodeHash, tokenA, tokenB)
	if err != nil {
		return eth.PairState{}, nil, nil, err
	}
	reader, err := s.pairs.Latest(ctx)
	if err != nil {
		return eth.PairState{}, nil, nil, err
	}
	st, err := reader.State(ctx, pair)
	if err != nil {
		return eth.PairState{}, nil, nil, err
	}
	if tokenA == token0 {
		return st, st.Reserve0, st.Reserve1, nil
	}
	return st, st.Reserve1, st.Reserve0, nil
}

// mintedLiquidity mirrors the pair's mint: the geometric mean less the
// locked minimum on the first deposit, otherwise the smaller pro-rata
// share.
func mintedLiquidity(amountA, amountB, reserveA, reserveB, supply *big.Int) *big.Int {
	if supply == nil || supply.Sign() == 0 {
		root := new(big.Int).Sqrt(new(big.Int).Mul(amountA, amountB))
		root.Sub(root, big.NewInt(ledger.MinimumLiquidity))
		if root.Sign() < 0 {
			return new(big.Int)
		}
		return root
	}
	if reserveA.Sign() == 0 || reserveB.Sign() == 0 {
		return new(big.Int)
	}
	la := new(big.Int).Mul(amountA, supply)
	la.Quo(la, reserveA)
	lb := new(big.Int).Mul(amountB, supply)
	lb.Quo(lb, reserveB)
	if lb.Cmp(la) < 0 {
		return lb
	}
	return la
}
