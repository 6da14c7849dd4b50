package uniswapv2

import (
	"math/big"
)

// AddLiquidityQuote picks the deposit amounts for a pool holding
// (reserveA, reserveB). An empty pool takes the desired amounts as-is;
// otherwise the side that limits the current price ratio is used in full
// and the other side is reduced to match.
func AddLiquidityQuote(amountADesired, amountBDesired, amountAMin, amountBMin, reserveA, reserveB *big.Int) (amountA, amountB *big.Int, err error) {
	if isZero(reserveA) && isZero(reserveB) {
		return new(big.Int).Set(nonNil(amountADesired)), new(big.Int).Set(nonNil(amountBDesired)), nil
	}

	amountBOptimal, err := Quote(amountADesired, reserveA, reserveB)
	if err != nil {
		return nil, nil, err
	}
	if amountBOptimal.Cmp(nonNil(amountBDesired)) <= 0 {
		if amountBOptimal.Cmp(nonNil(amountBMin)) < 0 {
			return nil, nil, ErrInsufficientBAmount
		}
		return new(big.Int).Set(amountADesired), amountBOptimal, nil
	}

	amountAOptimal, err := Quote(amountBDesired, reserveB, reserveA)
	if err != nil {
		return nil, nil, err
	}
	if amountAOptimal.Cmp(amountADesired) > 0 || amountAOptimal.Cmp(nonNil(amountAMin)) < 0 {
		return nil, nil, ErrInsufficientAAmount
	}
	return amountAOptimal, new(big.Int).Set(amountBDesired), nil
}

// RemoveLiquidityQuote returns the pro-rata share of both reserves released
// by burning liquidity out of totalSupply, floored, and checks it against
// the caller's minima.
func RemoveLiquidityQuote(liquidity, totalSupply, reserveA, reserveB, amountAMin, amountBMin *big.Int) (amountA, amountB *big.Int, err error) {
	if !positive(liquidity) {
		return nil, nil, ErrInsufficientAmount
	}
	if !positive(totalSupply) || liquidity.Cmp(totalSupply) > 0 {
		return nil, nil, ErrInsufficientLiquidity
	}
	amountA = new(big.Int).Mul(liquidity, nonNil(reserveA))
	amountA.Quo(amountA, totalSupply)
	amountB = new(big.Int).Mul(liquidity, nonNil(reserveB))
	amountB.Quo(amountB, totalSupply)

	if err := CheckMinimums(amountA, amountB, amountAMin, amountBMin); err != nil {
		return nil, nil, err
	}
	return amountA, amountB, nil
}

// CheckMinimums reports whether a realised withdrawal satisfies the
// caller's minima.
func CheckMinimums(amountA, amountB, amountAMin, amountBMin *big.Int) error {
	if amountA.Cmp(nonNil(amountAMin)) < 0 {
		return ErrInsufficientAAmount
	}
	if amountB.Cmp(nonNil(amountBMin)) < 0 {
		return ErrInsufficientBAmount
	}
	return nil
}

func isZero(x *big.Int) bool {
	return x == nil || x.Sign() == 0
}
