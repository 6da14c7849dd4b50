package uniswapv2

import (
	"fmt"
	"math/big"
)

// fee: 0.3% => multiplier 997/1000
var (
	feeMul = big.NewInt(997)
	feeDen = big.NewInt(1000)
)

// Fee is the swap fee charged on the input side, expressed as
// Numerator/Denominator (3/1000 for the canonical 0.3% pool).
type Fee struct {
	Numerator   uint64 `yaml:"numerator" json:"numerator"`
	Denominator uint64 `yaml:"denominator" json:"denominator"`
}

// DefaultFee is the 0.3% fee of Uniswap V2 pairs.
var DefaultFee = Fee{Numerator: 3, Denominator: 1000}

// Validate reports whether the fee is usable: the denominator must be
// positive and strictly greater than the numerator.
func (f Fee) Validate() error {
	if f.Denominator == 0 || f.Numerator >= f.Denominator {
		return fmt.Errorf("%w: %d/%d", ErrInvalidFee, f.Numerator, f.Denominator)
	}
	return nil
}

func (f Fee) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

func (f Fee) factors() (mul, den *big.Int) {
	if f == DefaultFee {
		return feeMul, feeDen
	}
	return new(big.Int).SetUint64(f.Denominator - f.Numerator), new(big.Int).SetUint64(f.Denominator)
}

// GetAmountOut applies the 0.3% constant-product formula without allocating:
// dst, t1 and t2 are caller-owned scratch values. No input validation is
// performed; use AmountOut for the checked variant.
func GetAmountOut(dst, t1, t2 *big.Int, amountIn, reserveIn, reserveOut *big.Int) *big.Int {
	return getAmountOut(dst, t1, t2, amountIn, reserveIn, reserveOut, feeMul, feeDen)
}

func getAmountOut(dst, t1, t2 *big.Int, amountIn, reserveIn, reserveOut, mul, den *big.Int) *big.Int {
	// t1 = amountIn * mul
	t1.Mul(amountIn, mul)
	// t2 = reserveIn * den
	t2.Mul(reserveIn, den)
	// t2 = t2 + t1  (denominator)
	t2.Add(t2, t1)
	// dst = t1 * reserveOut (numerator)
	dst.Mul(t1, reserveOut)
	// dst = dst / t2  (avoid aliasing z==y)
	return dst.Div(dst, t2)
}

// AmountOut returns the maximum output obtainable for amountIn given the
// hop-oriented reserves. The result is floored.
func AmountOut(amountIn, reserveIn, reserveOut *big.Int, fee Fee) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, ErrInsufficientInputAmount
	}
	if !positive(reserveIn) || !positive(reserveOut) {
		return nil, ErrInsufficientLiquidity
	}
	if err := fee.Validate(); err != nil {
		return nil, err
	}
	mul, den := fee.factors()
	var t1, t2 big.Int
	return getAmountOut(new(big.Int), &t1, &t2, amountIn, reserveIn, reserveOut, mul, den), nil
}

// AmountIn returns the minimum input required to receive amountOut given
// the hop-oriented reserves. The result is rounded up so the pool invariant
// never decreases.
func AmountIn(amountOut, reserveIn, reserveOut *big.Int, fee Fee) (*big.Int, error) {
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, ErrInsufficientOutputAmount
	}
	if !positive(reserveIn) || !positive(reserveOut) || amountOut.Cmp(reserveOut) >= 0 {
		return nil, ErrInsufficientLiquidity
	}
	if err := fee.Validate(); err != nil {
		return nil, err
	}
	mul, den := fee.factors()

	numerator := new(big.Int).Mul(reserveIn, amountOut)
	numerator.Mul(numerator, den)
	denominator := new(big.Int).Sub(reserveOut, amountOut)
	denominator.Mul(denominator, mul)

	return ceilDiv(numerator, denominator), nil
}

// Quote returns the amount of B equivalent to amountA at the current
// reserve ratio, floored.
func Quote(amountA, reserveA, reserveB *big.Int) (*big.Int, error) {
	if amountA == nil || amountA.Sign() <= 0 {
		return nil, ErrInsufficientAmount
	}
	if !positive(reserveA) || !positive(reserveB) {
		return nil, ErrInsufficientLiquidity
	}
	out := new(big.Int).Mul(amountA, reserveB)
	return out.Quo(out, reserveA), nil
}

// ceilDiv returns ceil(n / d) for non-negative n and positive d.
func ceilDiv(n, d *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(n, d, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

func positive(x *big.Int) bool {
	return x != nil && x.Sign() > 0
}
