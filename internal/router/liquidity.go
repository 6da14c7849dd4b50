package router

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

type AddLiquidityParams struct {
	TokenA, TokenB common.Address
	AmountADesired *big.Int
	AmountBDesired *big.Int
	AmountAMin     *big.Int
	AmountBMin     *big.Int
	To             common.Address
	Deadline       uint64
}

// AddLiquidityETHParams pairs Token with WETH. The desired native amount is
// the value attached to the call.
type AddLiquidityETHParams struct {
	Token              common.Address
	AmountTokenDesired *big.Int
	AmountTokenMin     *big.Int
	AmountETHMin       *big.Int
	To                 common.Address
	Deadline           uint64
}

type RemoveLiquidityParams struct {
	TokenA, TokenB common.Address
	Liquidity      *big.Int
	AmountAMin     *big.Int
	AmountBMin     *big.Int
	To             common.Address
	Deadline       uint64
}

type RemoveLiquidityETHParams struct {
	Token          common.Address
	Liquidity      *big.Int
	AmountTokenMin *big.Int
	AmountETHMin   *big.Int
	To             common.Address
	Deadline       uint64
}

// Position is the outcome of a liquidity operation. For the native variants
// AmountA is the token side and AmountB the native side.
type Position struct {
	AmountA   *big.Int
	AmountB   *big.Int
	Liquidity *big.Int
}

// AddLiquidity deposits into the (TokenA, TokenB) pair, creating it on the
// first deposit, and mints liquidity to p.To.
func (r *Router) AddLiquidity(ctx context.Context, call Call, p AddLiquidityParams) (pos Position, err error) {
	err = r.execute(ctx, "addLiquidity", call, p.Deadline, false, func() error {
		amountA, amountB, err := r.depositAmounts(ctx, p.TokenA, p.TokenB, p.AmountADesired, p.AmountBDesired, p.AmountAMin, p.AmountBMin)
		if err != nil {
			return err
		}
		pair, err := r.pairFor(p.TokenA, p.TokenB)
		if err != nil {
			return err
		}
		if err := r.state.TransferFrom(p.TokenA, r.cfg.Address, call.From, pair, amountA); err != nil {
			return fmt.Errorf("pull %s: %w", p.TokenA.Hex(), err)
		}
		if err := r.state.TransferFrom(p.TokenB, r.cfg.Address, call.From, pair, amountB); err != nil {
			return fmt.Errorf("pull %s: %w", p.TokenB.Hex(), err)
		}
		liquidity, err := r.state.Mint(pair, r.cfg.Address, p.To)
		if err != nil {
			return err
		}
		pos = Position{AmountA: amountA, AmountB: amountB, Liquidity: liquidity}
		return nil
	})
	return r.liquidityDone("addLiquidity", call, pos, err)
}

// AddLiquidityETH deposits Token and the attached native value into the
// (Token, WETH) pair. Native value the pair ratio does not use is refunded.
func (r *Router) AddLiquidityETH(ctx context.Context, call Call, p AddLiquidityETHParams) (pos Position, err error) {
	err = r.execute(ctx, "addLiquidityETH", call, p.Deadline, true, func() error {
		value := nativeValue(call)
		amountToken, amountETH, err := r.depositAmounts(ctx, p.Token, r.cfg.WETH, p.AmountTokenDesired, value, p.AmountTokenMin, p.AmountETHMin)
		if err != nil {
			return err
		}
		pair, err := r.pairFor(p.Token, r.cfg.WETH)
		if err != nil {
			return err
		}
		if err := r.state.TransferFrom(p.Token, r.cfg.Address, call.From, pair, amountToken); err != nil {
			return fmt.Errorf("pull %s: %w", p.Token.Hex(), err)
		}
		if err := r.wrapTo(pair, amountETH); err != nil {
			return err
		}
		liquidity, err := r.state.Mint(pair, r.cfg.Address, p.To)
		if err != nil {
			return err
		}
		if err := r.refund(call.From, value, amountETH); err != nil {
			return err
		}
		pos = Position{AmountA: amountToken, AmountB: amountETH, Liquidity: liquidity}
		return nil
	})
	return r.liquidityDone("addLiquidityETH", call, pos, err)
}

// RemoveLiquidity burns Liquidity of the caller's pair tokens and sends the
// released reserves to p.To.
func (r *Router) RemoveLiquidity(ctx context.Context, call Call, p RemoveLiquidityParams) (pos Position, err error) {
	err = r.execute(ctx, "removeLiquidity", call, p.Deadline, false, func() error {
		amountA, amountB, err := r.withdraw(call, p.TokenA, p.TokenB, p.Liquidity, p.AmountAMin, p.AmountBMin, p.To)
		if err != nil {
			return err
		}
		pos = Position{AmountA: amountA, AmountB: amountB, Liquidity: new(big.Int).Set(p.Liquidity)}
		return nil
	})
	return r.liquidityDone("removeLiquidity", call, pos, err)
}

// RemoveLiquidityETH burns liquidity of the (Token, WETH) pair, forwards the
// token side and pays the WETH side out as native asset.
func (r *Router) RemoveLiquidityETH(ctx context.Context, call Call, p RemoveLiquidityETHParams) (pos Position, err error) {
	err = r.execute(ctx, "removeLiquidityETH", call, p.Deadline, false, func() error {
		amountToken, amountETH, err := r.withdraw(call, p.Token, r.cfg.WETH, p.Liquidity, p.AmountTokenMin, p.AmountETHMin, r.cfg.Address)
		if err != nil {
			return err
		}
		if err := r.state.Transfer(p.Token, r.cfg.Address, p.To, amountToken); err != nil {
			return err
		}
		if err := r.unwrapTo(p.To, amountETH); err != nil {
			return err
		}
		pos = Position{AmountA: amountToken, AmountB: amountETH, Liquidity: new(big.Int).Set(p.Liquidity)}
		return nil
	})
	return r.liquidityDone("removeLiquidityETH", call, pos, err)
}

// depositAmounts creates the pair when missing and sizes the deposit
// against its current reserves.
func (r *Router) depositAmounts(ctx context.Context, tokenA, tokenB common.Address, desiredA, desiredB, minA, minB *big.Int) (*big.Int, *big.Int, error) {
	if _, ok := r.state.GetPair(tokenA, tokenB); !ok {
		pair, err := r.state.CreatePair(tokenA, tokenB)
		if err != nil {
			return nil, nil, err
		}
		r.logger.Info("pair created", "pair", pair.Hex(), "tokenA", tokenA.Hex(), "tokenB", tokenB.Hex())
	}
	reserves, err := r.resolver.ReservesFor(ctx, tokenA, tokenB)
	if err != nil {
		return nil, nil, err
	}
	return uniswapv2.AddLiquidityQuote(desiredA, desiredB, minA, minB, reserves.In, reserves.Out)
}

// withdraw moves liquidity from the caller into the pair, burns it and
// returns the amounts released, in (tokenA, tokenB) order.
func (r *Router) withdraw(call Call, tokenA, tokenB common.Address, liquidity, minA, minB *big.Int, to common.Address) (*big.Int, *big.Int, error) {
	if liquidity == nil || liquidity.Sign() <= 0 {
		return nil, nil, uniswapv2.ErrInsufficientAmount
	}
	token0, _, err := uniswapv2.SortTokens(tokenA, tokenB)
	if err != nil {
		return nil, nil, err
	}
	pair, err := r.pairFor(tokenA, tokenB)
	if err != nil {
		return nil, nil, err
	}
	if err := r.state.TransferFrom(pair, r.cfg.Address, call.From, pair, liquidity); err != nil {
		return nil, nil, fmt.Errorf("pull liquidity: %w", err)
	}
	amount0, amount1, err := r.state.Burn(pair, r.cfg.Address, to)
	if err != nil {
		return nil, nil, err
	}
	amountA, amountB := amount0, amount1
	if tokenA != token0 {
		amountA, amountB = amount1, amount0
	}
	if err := uniswapv2.CheckMinimums(amountA, amountB, minA, minB); err != nil {
		return nil, nil, err
	}
	return amountA, amountB, nil
}

func (r *Router) liquidityDone(op string, call Call, pos Position, err error) (Position, error) {
	if err != nil {
		return Position{}, err
	}
	r.logger.Debug("liquidity changed", "op", op, "from", call.From.Hex(),
		"amountA", pos.AmountA.String(), "amountB", pos.AmountB.String(), "liquidity", pos.Liquidity.String())
	return pos, nil
}
