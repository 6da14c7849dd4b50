package uniswapv2

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AmountsOut performs chained AmountOut calculations along path. amounts[0]
// is amountIn and amounts[i+1] is the output of hop i.
func (r *Resolver) AmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address, fee Fee) ([]*big.Int, error) {
	if err := r.ValidatePath(path); err != nil {
		return nil, err
	}

	amounts := make([]*big.Int, len(path))
	amounts[0] = new(big.Int).Set(nonNil(amountIn))
	for i := 0; i < len(path)-1; i++ {
		reserves, err := r.ReservesFor(ctx, path[i], path[i+1])
		if err != nil {
			return nil, err
		}
		out, err := AmountOut(amounts[i], reserves.In, reserves.Out, fee)
		if err != nil {
			return nil, fmt.Errorf("hop %d (%s): %w", i, reserves.Pair.Hex(), err)
		}
		amounts[i+1] = out
	}
	return amounts, nil
}

// AmountsIn performs chained AmountIn calculations along path, walking from
// the last hop back to the first. amounts[len-1] is amountOut.
func (r *Resolver) AmountsIn(ctx context.Context, amountOut *big.Int, path []common.Address, fee Fee) ([]*big.Int, error) {
	if err := r.ValidatePath(path); err != nil {
		return nil, err
	}

	amounts := make([]*big.Int, len(path))
	amounts[len(amounts)-1] = new(big.Int).Set(nonNil(amountOut))
	for i := len(path) - 1; i > 0; i-- {
		reserves, err := r.ReservesFor(ctx, path[i-1], path[i])
		if err != nil {
			return nil, err
		}
		in, err := AmountIn(amounts[i], reserves.In, reserves.Out, fee)
		if err != nil {
			return nil, fmt.Errorf("hop %d (%s): %w", i-1, reserves.Pair.Hex(), err)
		}
		amounts[i-1] = in
	}
	return amounts, nil
}

func nonNil(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return x
}
