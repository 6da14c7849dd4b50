package router

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

// SwapExactTokensForTokens sells exactly amountIn of path[0] for as much of
// the last token as the path yields, which must be at least amountOutMin.
func (r *Router) SwapExactTokensForTokens(ctx context.Context, call Call, amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline uint64) (amounts []*big.Int, err error) {
	err = r.execute(ctx, "swapExactTokensForTokens", call, deadline, false, func() error {
		if amounts, err = r.exactIn(ctx, amountIn, amountOutMin, path); err != nil {
			return err
		}
		return r.settle(call, amounts, path, fromCaller, to, false)
	})
	return r.done("swapExactTokensForTokens", call, amounts, err)
}

// SwapTokensForExactTokens buys exactly amountOut of the last token, paying
// at most amountInMax of path[0].
func (r *Router) SwapTokensForExactTokens(ctx context.Context, call Call, amountOut, amountInMax *big.Int, path []common.Address, to common.Address, deadline uint64) (amounts []*big.Int, err error) {
	err = r.execute(ctx, "swapTokensForExactTokens", call, deadline, false, func() error {
		if amounts, err = r.exactOut(ctx, amountOut, amountInMax, path); err != nil {
			return err
		}
		return r.settle(call, amounts, path, fromCaller, to, false)
	})
	return r.done("swapTokensForExactTokens", call, amounts, err)
}

// SwapExactETHForTokens sells the attached native value. path must start
// with WETH.
func (r *Router) SwapExactETHForTokens(ctx context.Context, call Call, amountOutMin *big.Int, path []common.Address, to common.Address, deadline uint64) (amounts []*big.Int, err error) {
	err = r.execute(ctx, "swapExactETHForTokens", call, deadline, true, func() error {
		if err := r.requireWETH(path, true, false); err != nil {
			return err
		}
		if amounts, err = r.exactIn(ctx, nativeValue(call), amountOutMin, path); err != nil {
			return err
		}
		return r.settle(call, amounts, path, fromNative, to, false)
	})
	return r.done("swapExactETHForTokens", call, amounts, err)
}

// SwapTokensForExactETH buys exactly amountOut of native asset. path must
// end with WETH.
func (r *Router) SwapTokensForExactETH(ctx context.Context, call Call, amountOut, amountInMax *big.Int, path []common.Address, to common.Address, deadline uint64) (amounts []*big.Int, err error) {
	err = r.execute(ctx, "swapTokensForExactETH", call, deadline, false, func() error {
		if err := r.requireWETH(path, false, true); err != nil {
			return err
		}
		if amounts, err = r.exactOut(ctx, amountOut, amountInMax, path); err != nil {
			return err
		}
		return r.settle(call, amounts, path, fromCaller, to, true)
	})
	return r.done("swapTokensForExactETH", call, amounts, err)
}

// SwapExactTokensForETH sells exactly amountIn of path[0] for native asset.
// path must end with WETH.
func (r *Router) SwapExactTokensForETH(ctx context.Context, call Call, amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline uint64) (amounts []*big.Int, err error) {
	err = r.execute(ctx, "swapExactTokensForETH", call, deadline, false, func() error {
		if err := r.requireWETH(path, false, true); err != nil {
			return err
		}
		if amounts, err = r.exactIn(ctx, amountIn, amountOutMin, path); err != nil {
			return err
		}
		return r.settle(call, amounts, path, fromCaller, to, true)
	})
	return r.done("swapExactTokensForETH", call, amounts, err)
}

// SwapETHForExactTokens buys exactly amountOut of the last token with the
// attached native value as the spending cap. Whatever is not spent is
// refunded to the caller.
func (r *Router) SwapETHForExactTokens(ctx context.Context, call Call, amountOut *big.Int, path []common.Address, to common.Address, deadline uint64) (amounts []*big.Int, err error) {
	err = r.execute(ctx, "swapETHForExactTokens", call, deadline, true, func() error {
		if err := r.requireWETH(path, true, false); err != nil {
			return err
		}
		value := nativeValue(call)
		if amounts, err = r.exactOut(ctx, amountOut, value, path); err != nil {
			return err
		}
		if err := r.settle(call, amounts, path, fromNative, to, false); err != nil {
			return err
		}
		return r.refund(call.From, value, amounts[0])
	})
	return r.done("swapETHForExactTokens", call, amounts, err)
}

// SwapETHForETH sends the attached native value around a path that starts
// and ends with WETH and pays the result out as native asset. Callers that
// want a net gain set amountOutMin above the attached value.
func (r *Router) SwapETHForETH(ctx context.Context, call Call, amountOutMin *big.Int, path []common.Address, to common.Address, deadline uint64) (amounts []*big.Int, err error) {
	err = r.execute(ctx, "swapETHForETH", call, deadline, true, func() error {
		if err := r.requireWETH(path, true, true); err != nil {
			return err
		}
		if amounts, err = r.exactIn(ctx, nativeValue(call), amountOutMin, path); err != nil {
			return err
		}
		return r.settle(call, amounts, path, fromNative, to, true)
	})
	return r.done("swapETHForETH", call, amounts, err)
}

// exactIn computes amounts for an exact input and enforces the output floor.
func (r *Router) exactIn(ctx context.Context, amountIn, amountOutMin *big.Int, path []common.Address) ([]*big.Int, error) {
	amounts, err := r.resolver.AmountsOut(ctx, amountIn, path, r.cfg.Fee)
	if err != nil {
		return nil, err
	}
	if out := amounts[len(amounts)-1]; out.Cmp(nonNil(amountOutMin)) < 0 {
		return nil, fmt.Errorf("%w: got %s, want at least %s", uniswapv2.ErrInsufficientOutputAmount, out, nonNil(amountOutMin))
	}
	return amounts, nil
}

// exactOut computes amounts for an exact output and enforces the input cap.
func (r *Router) exactOut(ctx context.Context, amountOut, amountInMax *big.Int, path []common.Address) ([]*big.Int, error) {
	amounts, err := r.resolver.AmountsIn(ctx, amountOut, path, r.cfg.Fee)
	if err != nil {
		return nil, err
	}
	if in := amounts[0]; in.Cmp(nonNil(amountInMax)) > 0 {
		return nil, fmt.Errorf("%w: need %s, allowed %s", ErrExcessiveInputAmount, in, nonNil(amountInMax))
	}
	return amounts, nil
}

func (r *Router) requireWETH(path []common.Address, first, last bool) error {
	if len(path) < 2 {
		return uniswapv2.ErrInvalidPath
	}
	if first && path[0] != r.cfg.WETH {
		return fmt.Errorf("%w: path must start with WETH", uniswapv2.ErrInvalidPath)
	}
	if last && path[len(path)-1] != r.cfg.WETH {
		return fmt.Errorf("%w: path must end with WETH", uniswapv2.ErrInvalidPath)
	}
	return nil
}

func (r *Router) done(op string, call Call, amounts []*big.Int, err error) ([]*big.Int, error) {
	if err != nil {
		return nil, err
	}
	r.logger.Debug("swap executed", "op", op, "from", call.From.Hex(), "amounts", amounts)
	return amounts, nil
}

// Quote returns the amount of B worth amountA at the reserve ratio.
func (r *Router) Quote(amountA, reserveA, reserveB *big.Int) (*big.Int, error) {
	return uniswapv2.Quote(amountA, reserveA, reserveB)
}

func (r *Router) GetAmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	return uniswapv2.AmountOut(amountIn, reserveIn, reserveOut, r.cfg.Fee)
}

func (r *Router) GetAmountIn(amountOut, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	return uniswapv2.AmountIn(amountOut, reserveIn, reserveOut, r.cfg.Fee)
}

// GetAmountsOut returns the amounts an exact-input swap along path would
// produce against current reserves.
func (r *Router) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolver.AmountsOut(ctx, amountIn, path, r.cfg.Fee)
}

// GetAmountsIn returns the amounts an exact-output swap along path would
// require against current reserves.
func (r *Router) GetAmountsIn(ctx context.Context, amountOut *big.Int, path []common.Address) ([]*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolver.AmountsIn(ctx, amountOut, path, r.cfg.Fee)
}

func nonNil(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return x
}
