package router

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

// source says where the first hop's input comes from.
type source int

const (
	// fromCaller pulls the input from the caller's token allowance.
	fromCaller source = iota
	// fromNative wraps the router's native balance received with the call.
	fromNative
)

// settle pays amounts[0] of path[0] into the first pair, walks every hop and
// delivers the final output. When nativeOut is set the output is routed
// through the router, unwrapped and forwarded to to as native asset.
func (r *Router) settle(call Call, amounts []*big.Int, path []common.Address, src source, to common.Address, nativeOut bool) error {
	first, err := r.pairFor(path[0], path[1])
	if err != nil {
		return err
	}
	switch src {
	case fromNative:
		if err := r.wrapTo(first, amounts[0]); err != nil {
			return err
		}
	default:
		if err := r.state.TransferFrom(path[0], r.cfg.Address, call.From, first, amounts[0]); err != nil {
			return fmt.Errorf("pull %s: %w", path[0].Hex(), err)
		}
	}

	recipient := to
	if nativeOut {
		recipient = r.cfg.Address
	}
	if err := r.swap(amounts, path, recipient); err != nil {
		return err
	}
	r.metrics.ObserveHops(len(path) - 1)

	if nativeOut {
		return r.unwrapTo(to, amounts[len(amounts)-1])
	}
	return nil
}

// swap requires the initial amount to already have been sent to the first
// pair. Each hop's output goes straight to the next pair, and the last one
// to to.
func (r *Router) swap(amounts []*big.Int, path []common.Address, to common.Address) error {
	zero := new(big.Int)
	for i := 0; i < len(path)-1; i++ {
		input, output := path[i], path[i+1]
		token0, _, err := uniswapv2.SortTokens(input, output)
		if err != nil {
			return err
		}
		amountOut := amounts[i+1]
		amount0Out, amount1Out := zero, amountOut
		if input != token0 {
			amount0Out, amount1Out = amountOut, zero
		}

		dest := to
		if i < len(path)-2 {
			if dest, err = r.pairFor(output, path[i+2]); err != nil {
				return err
			}
		}
		pair, err := r.pairFor(input, output)
		if err != nil {
			return err
		}
		if err := r.state.Swap(pair, r.cfg.Address, amount0Out, amount1Out, dest); err != nil {
			return fmt.Errorf("hop %d (%s): %w", i, pair.Hex(), err)
		}
	}
	return nil
}
